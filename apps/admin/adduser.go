package main

import (
	"context"
	"fmt"
)

// addUser creates an admin account.
func (cli *commandLine) addUser(uname, pwd string) error {
	admin, err := cli.authSvc.AddAdmin(context.Background(), uname, pwd)
	if err != nil {
		return err
	}
	fmt.Printf("admin %q created\n", admin.Username)
	return nil
}
