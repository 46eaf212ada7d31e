package vybiumcircuitvm

import (
	"context"

	"github.com/vybium/vybium-circuit-vm/internal/vybium-circuit-vm/store"
	"github.com/vybium/vybium-circuit-vm/internal/vybium-circuit-vm/vm"
)

// VM is the public interface for the Vybium circuit VM
type VM interface {
	// Parse reads program text
	Parse(text string) (*Program, error)

	// Decode reads the canonical binary form of a program
	Decode(b []byte) (*Program, error)

	// Encode returns the canonical binary form of a program
	Encode(program *Program) ([]byte, error)

	// Run executes a program and returns its declared outputs
	Run(ctx context.Context, program *Program, inputs []Value) ([]Value, error)

	// RunBatch executes a program once per input set, in parallel
	RunBatch(ctx context.Context, program *Program, inputs [][]Value) ([][]Value, error)

	// Store saves a program and returns its digest
	Store(ctx context.Context, program *Program) (Digest, error)

	// Load fetches a stored program
	Load(ctx context.Context, digest Digest) (*Program, error)

	// List returns every stored program
	List(ctx context.Context) ([]StoreEntry, error)

	// Close releases the program store
	Close() error
}

// vmImpl is the internal implementation of VM
type vmImpl struct {
	config   *Config
	executor *vm.Executor
	programs *store.ProgramStore
}

// NewVM creates a VM with the given configuration, opening the program store at config.StorePath
func NewVM(ctx context.Context, config *Config) (VM, error) {
	if err := config.Validate(); err != nil {
		return nil, &VMError{Code: ErrInvalidConfig, Message: "invalid configuration", Cause: err}
	}
	console, err := vm.NewConsole(config.PoseidonCacheSize)
	if err != nil {
		return nil, &VMError{Code: ErrInvalidConfig, Message: "failed to create console", Cause: err}
	}
	executor, err := vm.NewExecutor(console, config)
	if err != nil {
		return nil, &VMError{Code: ErrInvalidConfig, Message: "failed to create executor", Cause: err}
	}
	programs, err := store.Open(ctx, config.StorePath, config.MaxInstructions)
	if err != nil {
		return nil, &VMError{Code: ErrStore, Message: "failed to open program store", Cause: err}
	}
	return &vmImpl{
		config:   config.Clone(),
		executor: executor,
		programs: programs,
	}, nil
}

func (v *vmImpl) Parse(text string) (*Program, error) {
	p, err := vm.ParseProgram(text)
	if err != nil {
		return nil, newError(ErrParse, "invalid program text", err)
	}
	if n := len(p.Instructions); n > v.config.MaxInstructions {
		return nil, &VMError{Code: ErrInvalidInput, Message: "program exceeds the instruction limit"}
	}
	return p, nil
}

func (v *vmImpl) Decode(b []byte) (*Program, error) {
	p, err := vm.UnmarshalProgram(b, v.config.MaxInstructions)
	if err != nil {
		return nil, newError(ErrDecode, "invalid program bytes", err)
	}
	return p, nil
}

func (v *vmImpl) Encode(program *Program) ([]byte, error) {
	b, err := program.MarshalBinary()
	if err != nil {
		return nil, newError(ErrUnknown, "encoding program", err)
	}
	return b, nil
}

func (v *vmImpl) Run(ctx context.Context, program *Program, inputs []Value) ([]Value, error) {
	outs, err := v.executor.Run(ctx, program, inputs)
	if err != nil {
		return nil, newError(ErrUnknown, "execution failed", err)
	}
	return outs, nil
}

func (v *vmImpl) RunBatch(ctx context.Context, program *Program, inputs [][]Value) ([][]Value, error) {
	outs, err := v.executor.RunBatch(ctx, program, inputs)
	if err != nil {
		return nil, newError(ErrUnknown, "batch execution failed", err)
	}
	return outs, nil
}

func (v *vmImpl) Store(ctx context.Context, program *Program) (Digest, error) {
	d, err := v.programs.Put(ctx, program)
	if err != nil {
		return Digest{}, newError(ErrStore, "storing program", err)
	}
	return d, nil
}

func (v *vmImpl) Load(ctx context.Context, digest Digest) (*Program, error) {
	p, err := v.programs.Get(ctx, digest)
	if err != nil {
		return nil, newError(ErrStore, "loading program", err)
	}
	return p, nil
}

func (v *vmImpl) List(ctx context.Context) ([]StoreEntry, error) {
	entries, err := v.programs.List(ctx)
	if err != nil {
		return nil, newError(ErrStore, "listing programs", err)
	}
	return entries, nil
}

func (v *vmImpl) Close() error {
	return v.programs.Close()
}
