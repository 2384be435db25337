package main

import (
	"os"

	"alert-risk/pkg/integrate"

	"github.com/innerr/ticat/pkg/ticat"
)

// Set with -ldflags "-X main.GitHash=..." at build time.
var (
	GitHash   string = ""
	GitDirty  string = ""
	BuildTime string = ""
)

func main() {
	integrate.SetBuildInfo(GitHash, GitDirty != "", BuildTime)

	tc := ticat.NewTiCat()
	err := integrate.Integrate(tc)
	if err != nil {
		panic(err)
	}
	tc.RunCli(os.Args[1:]...)
}
