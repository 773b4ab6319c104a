// Package orgscout holds build metadata shared by the orgscout binary.
package orgscout

// Version is the orgscout release version.
const Version = "0.1.0"

// ModulePath is the Go module path of this repository.
const ModulePath = "github.com/mesh-intelligence/orgscout"
