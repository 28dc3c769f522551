//go:build !integration

package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pricescout/pricescout/internal/model"
	"github.com/pricescout/pricescout/internal/notify"
)

func TestFormatCountries(t *testing.T) {
	var buf bytes.Buffer
	formatCountries(&buf, "JP")

	output := buf.String()
	assert.Contains(t, output, "India")
	assert.Contains(t, output, "INR")
	assert.Contains(t, output, "Japan")

	// Only the selected row is marked.
	for _, line := range strings.Split(output, "\n") {
		if strings.HasPrefix(line, "*") {
			assert.Contains(t, line, "JP")
		}
	}
	assert.Contains(t, output, "*")
}

func TestPrintLocationBadge(t *testing.T) {
	bus := notify.NewBus()
	events, cancel := bus.Subscribe()
	defer cancel()

	bus.LocationChanged(model.UserLocation{Country: "India", CountryCode: "IN", City: "Bengaluru"})
	bus.CountryChanged("IN")

	var buf bytes.Buffer
	printLocationBadge(&buf, events)

	output := buf.String()
	assert.Contains(t, output, "Detected Bengaluru")
	assert.Contains(t, output, "India")
	assert.Contains(t, output, "INR")
}

func TestPrintLocationBadge_NoEvents(t *testing.T) {
	bus := notify.NewBus()
	events, cancel := bus.Subscribe()
	defer cancel()

	var buf bytes.Buffer
	printLocationBadge(&buf, events)
	assert.Empty(t, buf.String())
}
