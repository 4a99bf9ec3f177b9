package cli

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	ms "limitd.dev/limitd/settings"
)

type SettingType int

const (
	String SettingType = iota
	Float
	Int
	Bool
)

type settingsState int

const (
	showSettingsMenu settingsState = iota
	settingsExit
	settingsInput
	saveSettings
)

type settingsItem struct {
	title, desc string
	state       settingsState
	Type        SettingType
	apply       func(s *ms.LimitdSettings, value string) error
}

func (i settingsItem) Title() string       { return i.title }
func (i settingsItem) Description() string { return i.desc }
func (i settingsItem) FilterValue() string { return i.title }

type settingsModel struct {
	list         list.Model
	state        settingsState
	textInput    textinput.Model
	selectedItem settingsItem
	prompt       string
}

func (m settingsModel) Init() tea.Cmd {
	return nil
}

func (m settingsModel) Update(msg tea.Msg, mm *uiModel) (settingsModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.Type == tea.KeyEnter && m.state == showSettingsMenu {
			it := m.list.SelectedItem().(settingsItem)
			m.selectedItem = it
			m.state = it.state
			switch m.state {
			case settingsExit:
				m.state = showSettingsMenu
				mm.state = showMenu
			case settingsInput:
				m.prompt = m.selectedItem.Title()
				m.textInput = textinput.New()
				m.textInput.Focus()
			case saveSettings:
				m.state = showSettingsMenu
				mm.state = showMenu
				ms.Settings.Save()
			}
			return m, nil
		}
		if msg.Type == tea.KeyEnter && m.state == settingsInput {
			m.state = showSettingsMenu
			result := m.textInput.Value()
			err := m.selectedItem.apply(&ms.Settings, result)
			if err != nil {
				m.prompt = fmt.Sprintf("invalid value: %v", err)
			}
			return m, nil
		}
		if msg.Type == tea.KeyEsc && m.state == settingsInput {
			m.state = showSettingsMenu
			return m, nil
		}
	case tea.WindowSizeMsg:
		h, v := docStyle.GetFrameSize()
		m.list.SetSize(msg.Width-h, msg.Height-v)
	}

	var cmd tea.Cmd
	if m.state == settingsInput {
		m.textInput, cmd = m.textInput.Update(msg)
		return m, cmd
	}
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m settingsModel) View() string {
	switch m.state {
	case settingsInput:
		return docStyle.Render(fmt.Sprintf(
			"%s\n\n%s\n\n%s",
			m.prompt,
			m.textInput.View(),
			"(esc to cancel)",
		) + "\n")
	default:
		return docStyle.Render(m.list.View())
	}
}

func parseSettingBool(value string) (bool, error) {
	return strconv.ParseBool(value)
}

func getSettingsModel() settingsModel {
	items := []list.Item{
		settingsItem{
			title: "Set Log Level",
			desc:  "Modify how verbose logging will be for the limitd system",
			Type:  String,
			state: settingsInput,
			apply: func(s *ms.LimitdSettings, value string) error {
				s.LogLevel = value
				return nil
			},
		},
		settingsItem{
			title: "Minimum Search Radius",
			desc:  "The radius in meters the road search starts at",
			Type:  Float,
			state: settingsInput,
			apply: func(s *ms.LimitdSettings, value string) error {
				val, err := strconv.ParseFloat(value, 64)
				if err != nil {
					return err
				}
				s.MinSearchRadius = val
				return nil
			},
		},
		settingsItem{
			title: "Maximum Search Radius",
			desc:  "The radius in meters the road search gives up at",
			Type:  Float,
			state: settingsInput,
			apply: func(s *ms.LimitdSettings, value string) error {
				val, err := strconv.ParseFloat(value, 64)
				if err != nil {
					return err
				}
				s.MaxSearchRadius = val
				return nil
			},
		},
		settingsItem{
			title: "Index Row Limit",
			desc:  "The maximum number of rows read from the spatial index per query",
			Type:  Int,
			state: settingsInput,
			apply: func(s *ms.LimitdSettings, value string) error {
				val, err := strconv.Atoi(value)
				if err != nil {
					return err
				}
				s.IndexRowLimit = val
				return nil
			},
		},
		settingsItem{
			title: "Scan Row Limit",
			desc:  "The maximum number of rows read when no spatial index exists",
			Type:  Int,
			state: settingsInput,
			apply: func(s *ms.LimitdSettings, value string) error {
				val, err := strconv.Atoi(value)
				if err != nil {
					return err
				}
				s.ScanRowLimit = val
				return nil
			},
		},
		settingsItem{
			title: "Look Ahead Enabled",
			desc:  "When enabled limitd also resolves the speed limit ahead of the vehicle",
			Type:  Bool,
			state: settingsInput,
			apply: func(s *ms.LimitdSettings, value string) error {
				val, err := parseSettingBool(value)
				if err != nil {
					return err
				}
				s.LookAheadEnabled = val
				return nil
			},
		},
		settingsItem{
			title: "Look Ahead Distance",
			desc:  "The distance in meters ahead of the vehicle the look ahead query uses",
			Type:  Float,
			state: settingsInput,
			apply: func(s *ms.LimitdSettings, value string) error {
				val, err := strconv.ParseFloat(value, 64)
				if err != nil {
					return err
				}
				s.LookAheadDistance = val
				return nil
			},
		},
		settingsItem{
			title: "Hold Last Seen Speed Limit",
			desc:  "When enabled limitd keeps reporting the last resolved speed limit while off road",
			Type:  Bool,
			state: settingsInput,
			apply: func(s *ms.LimitdSettings, value string) error {
				val, err := parseSettingBool(value)
				if err != nil {
					return err
				}
				s.HoldLastSeenSpeedLimit = val
				return nil
			},
		},
		settingsItem{
			title: "Save Settings",
			desc:  "Persists any updates to the settings across reboots",
			state: saveSettings,
		},
		settingsItem{
			title: "Return to Main Menu",
			desc:  "Exit settings configuration and return to the initial actions menu",
			state: settingsExit,
		},
	}

	listDelegate := list.NewDefaultDelegate()
	m := settingsModel{list: list.New(items, listDelegate, 0, 0)}
	m.list.Title = "Limitd Settings"
	return m
}
