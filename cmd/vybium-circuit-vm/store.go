package main

import (
	"go.brendoncarroll.net/star"
)

var storeDir = star.NewDir(star.Metadata{
	Short: "manage the program store",
}, map[star.Symbol]star.Command{
	"put":  storePut,
	"get":  storeGet,
	"list": storeList,
})

var storePut = star.Command{
	Metadata: star.Metadata{
		Short: "add a program to the store and print its digest",
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
		d, err := v.Store(ctx, p)
		if err != nil {
			return err
		}
		c.Printf("%v\n", d)
		return nil
	},
}

var storeGet = star.Command{
	Metadata: star.Metadata{
		Short: "print a stored program",
	},
	Flags: commonFlags,
	Pos:   []star.IParam{digestParam},
	F: func(c star.Context) error {
		ctx, v, err := setup(c)
		if err != nil {
			return err
		}
		p, err := v.Load(ctx, digestParam.Load(c))
		if err != nil {
			return err
		}
		c.Printf("%s", p.String())
		return nil
	},
}

var storeList = star.Command{
	Metadata: star.Metadata{
		Short: "list stored programs",
	},
	Flags: commonFlags,
	F: func(c star.Context) error {
		ctx, v, err := setup(c)
		if err != nil {
			return err
		}
		entries, err := v.List(ctx)
		if err != nil {
			return err
		}
		c.Printf("DIGEST\tINSTRUCTIONS\n")
		for _, e := range entries {
			c.Printf("%v\t%d\n", e.Digest, e.Instructions)
		}
		return nil
	},
}
