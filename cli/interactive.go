package cli

import (
	"fmt"

	"github.com/manifoldco/promptui"

	ms "limitd.dev/limitd/settings"
)

func settingsPreset() {
	prompt := promptui.Select{
		Label: "Select Settings Action",
		Items: []string{"Apply Defaults", "Apply Recommended", "Edit"},
	}

	_, result, err := prompt.Run()

	if err != nil {
		fmt.Printf("Prompt failed %v\n", err)
		return
	}

	ms.Settings.Load()
	switch result {
	case "Apply Defaults":
		ms.Settings.Default()
		ms.Settings.Save()
	case "Apply Recommended":
		ms.Settings.Recommended()
		ms.Settings.Save()
	case "Edit":
		interactive()
	}
}
