/*
flag Package sets up cli flags shared across services

Usage:

	Flags listed in this package are shared across boundaries and service-agnostic
	For service dependent flags please define in their respective package
*/

package flag

import (
	"flag"
)

const (
	APIServer = "api_server"
	Scraper   = "scraper"
)

var (
	IsDevelopment = flag.Bool("dev", true, "set to true if the current run is for development. default value is true")
	ServiceName   = flag.String("service", APIServer, "'api_server' or 'scraper'")
)

// Parse parses the shared flags together with any service specific ones. It
// must be called from main, not from init, so that test binaries can register
// their own flags first.
func Parse() {
	flag.Parse()
}
