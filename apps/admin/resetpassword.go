package main

import (
	"context"
	"fmt"
)

func (cli *commandLine) resetPassword(uname, pwd string) error {
	if err := cli.authSvc.ResetPassword(context.Background(), uname, pwd); err != nil {
		return err
	}
	fmt.Printf("password of %q updated\n", uname)
	return nil
}
