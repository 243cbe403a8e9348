// Command oslisten drives a DOM event channel from simulated native events
//
//	oslisten -n 5 --log-level debug
//	LISTENER_EVENT_SUBSCRIBE_SHOULD_THROW_ERRORS=true oslisten -c listener.yaml
package main

import (
	"os"
)

func main() {
	if err := newRootCommand(os.Stdout).Execute(); err != nil {
		os.Exit(1)
	}
}
