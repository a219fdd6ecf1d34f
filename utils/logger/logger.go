package logger

import (
	"fmt"
	"net/http"
	"net/http/httputil"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
	"github.com/siphondata/siphon/constants"
	"github.com/spf13/viper"
	"gopkg.in/natefinch/lumberjack.v2"
)

var logger = zerolog.New(os.Stdout).With().Timestamp().Logger()

// Info writes record into os.stdout with log level INFO
func Info(v ...interface{}) {
	if len(v) == 1 {
		logger.Info().Interface("message", v[0]).Send()
	} else {
		logger.Info().Msgf("%s", v...)
	}
}

func Infof(format string, v ...interface{}) {
	logger.Info().Msgf(format, v...)
}

func Debug(v ...interface{}) {
	logger.Debug().Msgf("%s", v...)
}

func Debugf(format string, v ...interface{}) {
	logger.Debug().Msgf(format, v...)
}

func Error(v ...interface{}) {
	logger.Error().Msgf("%s", v...)
}

func Errorf(format string, v ...interface{}) {
	logger.Error().Msgf(format, v...)
}

func Warn(v ...interface{}) {
	logger.Warn().Msgf("%s", v...)
}

func Warnf(format string, v ...interface{}) {
	logger.Warn().Msgf(format, v...)
}

// Fatal writes record into os.stdout with log level FATAL and exits
func Fatal(v ...interface{}) {
	logger.Fatal().Msgf("%s", v...)
}

func Fatalf(format string, v ...interface{}) {
	logger.Fatal().Msgf(format, v...)
}

// LogRequest dumps the outgoing request; debug aid for source API issues
func LogRequest(req *http.Request) {
	requestDump, err := httputil.DumpRequest(req, false)
	if err != nil {
		Errorf("failed to dump request: %s", err)
		return
	}

	Debug(string(requestDump))
}

func LogResponse(response *http.Response) {
	respDump, err := httputil.DumpResponse(response, false)
	if err != nil {
		Errorf("failed to dump response: %s", err)
		return
	}

	Debug(string(respDump))
}

// FileLogger creates or truncates the file at fullPath with the JSON
// serialization of content.
func FileLogger(content any, fullPath string) error {
	contentBytes, err := json.Marshal(content)
	if err != nil {
		return fmt.Errorf("failed to marshal content: %s", err)
	}

	if dir := filepath.Dir(fullPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create log directory: %s", err)
		}
	}

	file, err := os.OpenFile(fullPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return fmt.Errorf("failed to create or open file: %s", err)
	}
	defer file.Close()

	if _, err = file.Write(contentBytes); err != nil {
		return fmt.Errorf("failed to write data to file: %s", err)
	}

	return nil
}

// Init wires the console writer and the rotating sync log file. Called
// once from the root command after flags are parsed.
func Init() {
	timestamp := time.Now().UTC().Format("2006-01-02_15-04-05")
	rotatingFile := &lumberjack.Logger{
		Filename:   filepath.Join(viper.GetString(constants.ConfigFolder), "logs", fmt.Sprintf("sync_%s", timestamp), "siphon.log"),
		MaxSize:    100, // MB
		MaxBackups: 5,
		MaxAge:     30, // days
		Compress:   true,
	}
	zerolog.TimestampFunc = func() time.Time {
		return time.Now().UTC()
	}

	var currentLevel string
	logColors := map[string]string{
		"debug": "\033[36m",
		"info":  "\033[32m",
		"warn":  "\033[33m",
		"error": "\033[31m",
		"fatal": "\033[31m",
	}
	console := zerolog.ConsoleWriter{
		Out:        os.Stdout,
		TimeFormat: "2006-01-02 15:04:05",
		FormatLevel: func(i interface{}) string {
			level := i.(string)
			currentLevel = level
			return fmt.Sprintf("%s%s\033[0m", logColors[level], strings.ToUpper(level))
		},
		FormatMessage: func(i interface{}) string {
			msg := ""
			switch v := i.(type) {
			case string:
				msg = v
			default:
				jsonMsg, err := json.Marshal(v)
				if err != nil {
					return err.Error()
				}
				return string(jsonMsg)
			}
			if currentLevel == zerolog.ErrorLevel.String() || currentLevel == zerolog.FatalLevel.String() {
				msg = fmt.Sprintf("\033[31m%s\033[0m", msg)
			}
			return msg
		},
		FormatTimestamp: func(i interface{}) string {
			return fmt.Sprintf("\033[90m%s\033[0m", i)
		},
	}

	multiwriter := zerolog.MultiLevelWriter(console, rotatingFile)
	logger = zerolog.New(multiwriter).With().Timestamp().Logger()
}
