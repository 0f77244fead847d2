package main

import (
	"context"
	"fmt"
)

func (cli *commandLine) seed() error {
	created, err := cli.authSvc.SeedDefaultAdmin(
		context.Background(),
		cli.conf.Admin.DefaultUsername,
		cli.conf.Admin.DefaultPassword,
	)
	if err != nil {
		return err
	}
	if created {
		fmt.Printf("default admin %q created\n", cli.conf.Admin.DefaultUsername)
	} else {
		fmt.Println("default admin already exists")
	}
	return nil
}

func (cli *commandLine) normalizePaths() error {
	updated, err := cli.docSvc.NormalizeLegacyPaths(context.Background())
	if err != nil {
		return err
	}
	fmt.Printf("%d document paths normalized\n", updated)
	return nil
}
