package cli

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"limitd.dev/limitd/roads"
)

type outputModel struct {
	output roads.Output
	valid  bool
}

func (m outputModel) Update(msg tea.Msg, mm *uiModel) (outputModel, tea.Cmd) {
	out, success := mm.sub.Read()
	if success {
		m.valid = true
		m.output = out
	}

	return m, nil
}

func (m outputModel) View() string {
	if !m.valid {
		return docStyle.Render("waiting for output from limitd...\n")
	}
	return docStyle.Render(fmt.Sprintf(
		"latitude: %f\nlongitude: %f\nspeed limit: %d km/h\nsigned as: %d %s\ndistance: %f\nnext speed limit: %d km/h\nnext speed limit distance: %f\ncontainer loaded: %t",
		m.output.Latitude,
		m.output.Longitude,
		m.output.SpeedLimit,
		m.output.RawValue,
		m.output.RawUnit,
		m.output.Distance,
		m.output.NextSpeedLimit,
		m.output.NextSpeedLimitDistance,
		m.output.ContainerLoaded,
	) + "\n")
}
