package main

import (
	"encoding/json"
	"fmt"

	"github.com/fwojciec/repocrawl"
)

// Run executes the proxies command.
func (c *ProxiesCmd) Run(deps *Dependencies) error {
	proxies, err := deps.ProxyLister.ListProxies(deps.Ctx)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", repocrawl.ErrorMessage(err))
		return err
	}

	if c.JSON {
		if proxies == nil {
			proxies = []string{}
		}
		return json.NewEncoder(deps.Stdout).Encode(map[string][]string{"proxies": proxies})
	}

	if len(proxies) == 0 {
		fmt.Fprintln(deps.Stdout, "No proxies found.")
		return nil
	}
	for _, p := range proxies {
		fmt.Fprintln(deps.Stdout, p)
	}
	return nil
}
