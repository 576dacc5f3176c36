// ABOUTME: Build and product identification constants
// ABOUTME: Stamped into User-Agent headers by the transport layers
package version

const (
	// Version is the semantic version of this module
	Version = "0.3.0"

	// Product is the client name reported to the platform
	Product = "cerebra-go"

	// Manufacturer identifies the vendor of this client
	Manufacturer = "Cerebra Health"
)

// UserAgent returns the User-Agent value sent on every HTTP and
// websocket request.
func UserAgent() string {
	return Product + "/" + Version
}
