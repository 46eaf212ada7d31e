package main

import (
	"context"
	"fmt"
	"os"

	"github.com/tebeka/atexit"
	"go.brendoncarroll.net/star"
	"go.brendoncarroll.net/stdctx/logctx"
	"go.uber.org/zap"

	vybiumcircuitvm "github.com/vybium/vybium-circuit-vm/pkg/vybium-circuit-vm"
)

var root = star.NewDir(star.Metadata{
	Short: "Vybium circuit VM",
}, map[star.Symbol]star.Command{
	"run":    run,
	"check":  check,
	"encode": encode,
	"decode": decode,
	"digest": digest,
	"store":  storeDir,
})

var fileParam = star.Param[[]byte]{
	Name:  "f",
	Parse: os.ReadFile,
}

// defaultDB is the store file used when --db is not given
const defaultDB = "vybium-circuit-vm.db"

// star fills in at most one defaulted flag per command, so the optional
// flags are repeated params resolved by flagOr
var dbParam = star.Param[string]{
	Name:     "db",
	Repeated: true,
	Parse:    star.ParseString,
}

var logLevelParam = star.Param[string]{
	Name:     "log-level",
	Repeated: true,
	Parse:    star.ParseString,
}

// flagOr returns the last value given for p, or def
func flagOr(c star.Context, p star.Param[string], def string) string {
	if v, ok := p.LoadOpt(c); ok {
		return v
	}
	return def
}

var inputParam = star.Param[vybiumcircuitvm.Value]{
	Name:     "in",
	Repeated: true,
	Parse:    vybiumcircuitvm.ParseValue,
}

var digestParam = star.Param[vybiumcircuitvm.Digest]{
	Name:  "digest",
	Parse: vybiumcircuitvm.ParseDigest,
}

// setup builds the logger and VM from the common flags. The logger is flushed at exit.
func setup(c star.Context) (context.Context, vybiumcircuitvm.VM, error) {
	config := vybiumcircuitvm.DefaultConfig().
		WithStorePath(flagOr(c, dbParam, defaultDB)).
		WithLogLevel(flagOr(c, logLevelParam, vybiumcircuitvm.DefaultConfig().LogLevel))
	level, err := config.Level()
	if err != nil {
		return nil, nil, err
	}
	zcfg := zap.NewProductionConfig()
	zcfg.Level = zap.NewAtomicLevelAt(level)
	logger, err := zcfg.Build()
	if err != nil {
		return nil, nil, err
	}
	atexit.Register(func() { _ = logger.Sync() })

	ctx := logctx.NewContext(c.Context, logger)
	v, err := vybiumcircuitvm.NewVM(ctx, config)
	if err != nil {
		return nil, nil, err
	}
	atexit.Register(func() { _ = v.Close() })
	return ctx, v, nil
}

// loadProgram accepts program text, or the binary form when the text does not parse
func loadProgram(ctx context.Context, v vybiumcircuitvm.VM, src []byte) (*vybiumcircuitvm.Program, error) {
	p, err := v.Parse(string(src))
	if err == nil {
		return p, nil
	}
	p, derr := v.Decode(src)
	if derr != nil {
		logctx.Debug(ctx, "not a binary program", zap.Error(derr))
		return nil, err
	}
	return p, nil
}

var commonFlags = []star.IParam{dbParam, logLevelParam}

func withFlags(ps ...star.IParam) []star.IParam {
	return append(append([]star.IParam{}, commonFlags...), ps...)
}

var run = star.Command{
	Metadata: star.Metadata{
		Short: "run a program on the given inputs and print its outputs",
	},
	Flags: withFlags(fileParam, inputParam),
	F: func(c star.Context) error {
		ctx, v, err := setup(c)
		if err != nil {
			return err
		}
		p, err := loadProgram(ctx, v, fileParam.Load(c))
		if err != nil {
			return err
		}
		outs, err := v.Run(ctx, p, inputParam.LoadAll(c))
		if err != nil {
			return err
		}
		for _, out := range outs {
			c.Printf("%v\n", out)
		}
		return nil
	},
}

var check = star.Command{
	Metadata: star.Metadata{
		Short: "parse a program and print its canonical text and digest",
	},
	Flags: withFlags(fileParam),
	F: func(c star.Context) error {
		ctx, v, err := setup(c)
		if err != nil {
			return err
		}
		p, err := loadProgram(ctx, v, fileParam.Load(c))
		if err != nil {
			return err
		}
		d, err := p.Digest()
		if err != nil {
			return err
		}
		c.Printf("%s// %d instructions, digest %v\n", p.String(), len(p.Instructions), d)
		return nil
	},
}

var encode = star.Command{
	Metadata: star.Metadata{
		Short: "write the binary form of a program to stdout",
	},
	Flags: withFlags(fileParam),
	F: func(c star.Context) error {
		ctx, v, err := setup(c)
		if err != nil {
			return err
		}
		p, err := loadProgram(ctx, v, fileParam.Load(c))
		if err != nil {
			return err
		}
		b, err := v.Encode(p)
		if err != nil {
			return err
		}
		_, err = c.StdOut.Write(b)
		return err
	},
}

var decode = star.Command{
	Metadata: star.Metadata{
		Short: "print the text form of a binary program",
	},
	Flags: withFlags(fileParam),
	F: func(c star.Context) error {
		_, v, err := setup(c)
		if err != nil {
			return err
		}
		p, err := v.Decode(fileParam.Load(c))
		if err != nil {
			return err
		}
		c.Printf("%s", p.String())
		return nil
	},
}

var digest = star.Command{
	Metadata: star.Metadata{
		Short: "print the digest of a program",
	},
	Flags: withFlags(fileParam),
	F: func(c star.Context) error {
		ctx, v, err := setup(c)
		if err != nil {
			return err
		}
		p, err := loadProgram(ctx, v, fileParam.Load(c))
		if err != nil {
			return err
		}
		d, err := p.Digest()
		if err != nil {
			return fmt.Errorf("hashing program: %w", err)
		}
		c.Printf("%v\n", d)
		return nil
	},
}
