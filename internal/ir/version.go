package ir

// Version constants for the kernel.
const (
	// ModelName is the name of the compiled model.
	ModelName = "dich_univ"

	// KernelVersion is the evaluation kernel version.
	KernelVersion = "0.1.0"
)
