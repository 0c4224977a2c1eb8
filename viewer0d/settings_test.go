package main

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/itohio/scalarscope/pkg/config"
)

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{"a", "b", "c"}, splitList(" a, b ,,c "))
	assert.Nil(t, splitList(""))
	assert.Nil(t, splitList(" , "))
}

func TestApplyLabels(t *testing.T) {
	channels := []config.ChannelConfig{
		{Label: "old", Gain: 2, Offset: 1},
	}

	got := applyLabels(channels, []string{"x", "y"})

	assert.Equal(t, []config.ChannelConfig{
		{Label: "x", Gain: 2, Offset: 1},
		{Label: "y", Gain: 1},
	}, got)
	assert.Equal(t, "old", channels[0].Label, "input is not modified")
}

func TestApplyLabels_FewerLabels(t *testing.T) {
	channels := []config.ChannelConfig{
		{Label: "a", Gain: 1},
		{Label: "b", Gain: 3},
	}

	got := applyLabels(channels, []string{"x"})

	assert.Equal(t, []config.ChannelConfig{
		{Label: "x", Gain: 1},
		{Label: "", Gain: 3},
	}, got)
}
