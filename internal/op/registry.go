package op

import (
	"fmt"
	"sort"

	"github.com/ember-ml/ember/internal/tensor"
)

// The registries are populated during package initialization and read-only
// afterwards, so lookups need no synchronization. Register and
// RegisterKernel must only be called from init functions or before any
// graph is built; duplicate registration is a fatal startup error.

type kernelKey struct {
	name   string
	device tensor.Device
}

var (
	descriptors = make(map[string]Descriptor)
	kernels     = make(map[kernelKey]KernelFunc)
)

// Register adds a Descriptor under its name.
// Panics if the name is already taken.
func Register(d Descriptor) {
	name := d.Name()
	if _, exists := descriptors[name]; exists {
		panic(fmt.Sprintf("op: duplicate registration of operator %q", name))
	}
	descriptors[name] = d
}

// Lookup resolves an operator name to its Descriptor.
func Lookup(name string) (Descriptor, bool) {
	d, ok := descriptors[name]
	return d, ok
}

// MustLookup resolves an operator name or panics.
func MustLookup(name string) Descriptor {
	d, ok := descriptors[name]
	if !ok {
		panic(fmt.Sprintf("op: unknown operator %q", name))
	}
	return d
}

// Names returns all registered operator names, sorted.
func Names() []string {
	names := make([]string, 0, len(descriptors))
	for name := range descriptors {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// RegisterKernel adds the compute kernel for an operator on a device.
// Panics if the operator is unknown or the (operator, device) pair is
// already taken.
func RegisterKernel(name string, device tensor.Device, k KernelFunc) {
	if _, ok := descriptors[name]; !ok {
		panic(fmt.Sprintf("op: kernel registered for unknown operator %q", name))
	}
	key := kernelKey{name, device}
	if _, exists := kernels[key]; exists {
		panic(fmt.Sprintf("op: duplicate kernel registration for %q on %s", name, device))
	}
	kernels[key] = k
}

// Kernel resolves the compute kernel for an operator on a device.
func Kernel(name string, device tensor.Device) (KernelFunc, bool) {
	k, ok := kernels[kernelKey{name, device}]
	return k, ok
}
