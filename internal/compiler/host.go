package compiler

// Value is an opaque handle to a VM-resident value. The compiler never
// inspects one; it only ever stores what Host hands back into a chunk's
// constant pool or passes it straight through to Host.MarkObject.
type Value any

// Function is the one object the compiler itself constructs: the
// function-under-construction that owns a Chunk. Everything else that
// would normally live in an object model (closures, classes, upvalue
// cells at runtime) belongs to the host VM and is out of scope here.
type Function struct {
	Name         string
	Arity        int
	UpvalueCount int
	Chunk        *Chunk
}

// NewFunctionSkeleton builds an empty Function with a fresh Chunk. Host
// implementations typically call this from NewFunction.
func NewFunctionSkeleton() *Function {
	return &Function{Chunk: NewChunk()}
}

// Host is every VM-facing dependency the compiler consumes, matching the
// external interfaces a companion virtual machine would need to supply:
// string interning, function allocation, value construction, and a GC
// marking hook. A compilation never touches the VM for anything else.
type Host interface {
	// Intern returns the canonical Value for a string, deduplicating
	// against whatever interning table the host maintains.
	Intern(s string) Value

	// NewFunction allocates a fresh function-under-construction with an
	// empty chunk. The compiler sets Name/Arity/UpvalueCount and owns
	// Chunk; the host is free to track the returned pointer for garbage
	// collection.
	NewFunction() *Function

	// NumberValue, IntegerValue, BoolValue, and NullValue construct the
	// host's runtime representation of each of wisp's primitive literal
	// kinds.
	NumberValue(f float64) Value
	IntegerValue(i int64) Value
	BoolValue(b bool) Value
	NullValue() Value

	// MarkObject is the GC marking hook: it is called for every live
	// function-under-construction reachable from the compiler's frame
	// stack whenever the host asks the compiler to publish its roots.
	MarkObject(v any)
}
