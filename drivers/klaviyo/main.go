package main

import (
	"github.com/siphondata/siphon"
	driver "github.com/siphondata/siphon/drivers/klaviyo/internal"
)

func main() {
	driver := &driver.Klaviyo{}
	siphon.RegisterDriver(driver)
}
