// buzzerbox is a desktop simulator for the buzzer melody box.
//
// A simulated push-button goes through the same debounce and playback code
// as the firmware; the PWM output is rendered to the speaker, a PCM file or
// nowhere.
//
// Usage:
//
//	buzzerbox run                        # interactive: p=press r=release b=bounce q=quit
//	buzzerbox press --hold 200ms         # scripted press, waits for the melody
//	buzzerbox melody -o yaml             # print the melody table
//	buzzerbox config context set bench --output=pcm --pcm-file=/tmp/melody.pcm
//
// Configuration is stored in ~/.haivivi/buzzerbox/
package main

import (
	"fmt"
	"os"

	"github.com/haivivi/buzzerbox/cmd/buzzerbox/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
