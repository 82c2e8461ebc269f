//go:build tinygo

// buzzerbox-firmware is the device build of the buzzer melody box for an
// RP2040 board.
//
// Build and flash with TinyGo:
//
//	tinygo flash -target=pico ./cmd/buzzerbox-firmware
//
// The push-button connects GP21 to 3V3 (the pin is pulled down); the piezo
// buzzer is on GP2, driven by PWM slice 1.
package main

import (
	"context"
	"machine"

	"github.com/haivivi/buzzerbox/pkg/buzzer"
	"github.com/haivivi/buzzerbox/pkg/gpio"
	"github.com/haivivi/buzzerbox/pkg/melody"
	"github.com/haivivi/buzzerbox/pkg/tone"
)

const (
	buttonPin = machine.GP21
	buzzerPin = machine.GP2
)

func main() {
	pwm := tone.Machine(machine.PWM1, buzzerPin)
	dev, err := buzzer.NewDevice(buzzer.DeviceConfig{
		Button: gpio.Machine(buttonPin),
		PWM:    pwm,
		Tone:   tone.DefaultConfig(),
		Player: buzzer.DefaultPlayerConfig(),
		OnStep: func(int, melody.Step) {
			if err := pwm.Err(); err != nil {
				println("buzzerbox: tone:", err.Error())
			}
		},
	})
	if err != nil {
		println("buzzerbox:", err.Error())
		return
	}
	if err := dev.Start(context.Background()); err != nil {
		println("buzzerbox:", err.Error())
		return
	}
	select {}
}
