package pipeline

import (
	"os"
	"sync"

	"github.com/shirou/gopsutil/v3/host"
)

// ResourceKind names the identity scheme of a Resource.
type ResourceKind string

const (
	// KindLocalMachine identifies the machine running this process.
	KindLocalMachine ResourceKind = "local_machine"

	// KindCustom identifies a caller-defined scheme; the scheme name is
	// carried in Resource.Custom.
	KindCustom ResourceKind = "custom"
)

// Resource is one half of a measurement's subject identity, used both for
// the producing resource and for the consumer.
type Resource struct {
	Kind   ResourceKind
	Custom string // custom scheme name, set when Kind == KindCustom
	ID     string
}

// CustomResource builds an identity in a caller-defined scheme.
func CustomResource(scheme, id string) Resource {
	return Resource{Kind: KindCustom, Custom: scheme, ID: id}
}

var (
	localOnce sync.Once
	localID   string
)

// LocalMachine returns the identity of the machine running this process.
// The hostname is resolved once via gopsutil and cached.
func LocalMachine() Resource {
	localOnce.Do(func() {
		if info, err := host.Info(); err == nil && info.Hostname != "" {
			localID = info.Hostname
			return
		}
		if name, err := os.Hostname(); err == nil {
			localID = name
			return
		}
		localID = "localhost"
	})
	return Resource{Kind: KindLocalMachine, ID: localID}
}
