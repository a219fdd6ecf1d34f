package types

import (
	"fmt"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"github.com/siphondata/siphon/utils"
	"github.com/xitongsys/parquet-go/parquet"
)

// TypeSchema is a DTO for catalog schema object serialization
type TypeSchema struct {
	Properties sync.Map
}

func NewTypeSchema() *TypeSchema {
	return &TypeSchema{
		Properties: sync.Map{},
	}
}

// MarshalJSON custom marshaller to handle sync.Map encoding
func (t *TypeSchema) MarshalJSON() ([]byte, error) {
	propertiesMap := make(map[string]*Property)
	t.Properties.Range(func(key, value interface{}) bool {
		strKey, ok := key.(string)
		if !ok {
			return false
		}
		prop, ok := value.(*Property)
		if !ok {
			return false
		}
		propertiesMap[strKey] = prop
		return true
	})

	type Alias TypeSchema
	return json.Marshal(&struct {
		*Alias
		Properties map[string]*Property `json:"properties,omitempty"`
	}{
		Alias:      (*Alias)(t),
		Properties: propertiesMap,
	})
}

// UnmarshalJSON custom unmarshaller to handle sync.Map decoding
func (t *TypeSchema) UnmarshalJSON(data []byte) error {
	type Alias TypeSchema
	aux := &struct {
		*Alias
		Properties map[string]*Property `json:"properties,omitempty"`
	}{
		Alias: (*Alias)(t),
	}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	for key, value := range aux.Properties {
		t.Properties.Store(key, value)
	}

	return nil
}

func (t *TypeSchema) GetType(column string) (DataType, error) {
	p, found := t.Properties.Load(column)
	if !found {
		return "", fmt.Errorf("column [%s] missing from type schema", column)
	}

	return p.(*Property).DataType(), nil
}

func (t *TypeSchema) AddTypes(column string, types ...DataType) {
	p, found := t.Properties.Load(column)
	if !found {
		t.Properties.Store(column, &Property{
			Type: NewSet(types...),
		})

		return
	}

	property := p.(*Property)
	property.Type.Insert(types...)
}

func (t *TypeSchema) GetProperty(column string) (*Property, error) {
	p, found := t.Properties.Load(column)
	if !found {
		return nil, fmt.Errorf("column [%s] missing from type schema", column)
	}

	return p.(*Property), nil
}

// ToParquet converts schema properties to their parquet schema elements
func (t *TypeSchema) ToParquet() []*parquet.SchemaElement {
	elements := []*parquet.SchemaElement{}
	t.Properties.Range(func(key, value interface{}) bool {
		column := key.(string)
		property := value.(*Property)

		pqType, converted := property.DataType().getParquetEquivalent()
		repetition := parquet.FieldRepetitionType_REQUIRED
		if property.Nullable() {
			repetition = parquet.FieldRepetitionType_OPTIONAL
		}

		element := &parquet.SchemaElement{
			Name:           column,
			Type:           &pqType,
			RepetitionType: &repetition,
		}
		if converted != -1 {
			element.ConvertedType = &converted
		}

		elements = append(elements, element)
		return true
	})

	return elements
}

// StringifyComplexFields returns a copy of the record with object and
// array values serialized to JSON strings, matching the parquet schema.
func (t *TypeSchema) StringifyComplexFields(record Record) (Record, error) {
	out := make(Record, len(record))
	var convErr error

	for column, value := range record {
		property, err := t.GetProperty(column)
		if err != nil || value == nil {
			out[column] = value
			continue
		}

		datatype := property.DataType()
		switch {
		case datatype.stringificationNeeded():
			stringified, err := record.GetStringifiedJSONValue(column)
			if err != nil {
				convErr = fmt.Errorf("failed to stringify column %q: %s", column, err)
				break
			}
			out[column] = stringified
		case datatype.IsTimestamp():
			if ts, ok := value.(time.Time); ok {
				if datatype == TimestampMicro || datatype == TimestampNano {
					out[column] = ts.UnixMicro()
				} else {
					out[column] = ts.UnixMilli()
				}
			} else {
				out[column] = value
			}
		default:
			out[column] = value
		}
	}
	if convErr != nil {
		return nil, convErr
	}

	return out, nil
}

// Property is a dto for catalog properties representation
type Property struct {
	Type *Set[DataType] `json:"type,omitempty"`
	// Required fields fail record mapping when absent instead of
	// being emitted as explicit nulls.
	Required bool `json:"required,omitempty"`
}

func (p *Property) DataType() DataType {
	types := p.Type.Array()
	i, found := utils.ArrayContains(types, func(elem DataType) bool {
		return elem != Null
	})
	if !found {
		return Null
	}

	return types[i]
}

func (p *Property) Nullable() bool {
	_, found := utils.ArrayContains(p.Type.Array(), func(elem DataType) bool {
		return elem == Null
	})

	return found
}
