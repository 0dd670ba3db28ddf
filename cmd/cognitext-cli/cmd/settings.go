package cmd

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/spf13/cobra"

	"cognitext/internal/application"
	"cognitext/internal/domain"
	"cognitext/internal/events"
)

// setting reads and writes one settings.json key
type setting struct {
	get func(domain.Settings) string
	set func(*domain.Settings, string) error
}

func stringSetting(field func(*domain.Settings) *string) setting {
	return setting{
		get: func(s domain.Settings) string { return *field(&s) },
		set: func(s *domain.Settings, v string) error {
			*field(s) = v
			return nil
		},
	}
}

func intSetting(field func(*domain.Settings) *int, lo, hi int) setting {
	return setting{
		get: func(s domain.Settings) string { return strconv.Itoa(*field(&s)) },
		set: func(s *domain.Settings, v string) error {
			n, err := strconv.Atoi(v)
			if err != nil || n < lo || n > hi {
				return fmt.Errorf("expected a number from %d to %d, got %q", lo, hi, v)
			}
			*field(s) = n
			return nil
		},
	}
}

func boolSetting(field func(*domain.Settings) *bool) setting {
	return setting{
		get: func(s domain.Settings) string { return strconv.FormatBool(*field(&s)) },
		set: func(s *domain.Settings, v string) error {
			b, err := strconv.ParseBool(v)
			if err != nil {
				return fmt.Errorf("expected true or false, got %q", v)
			}
			*field(s) = b
			return nil
		},
	}
}

var settingKeys = map[string]setting{
	"colorTheme":                 stringSetting(func(s *domain.Settings) *string { return &s.ColorTheme }),
	"locale":                     stringSetting(func(s *domain.Settings) *string { return &s.Locale }),
	"editor.tabSize":             intSetting(func(s *domain.Settings) *int { return &s.Editor.TabSize }, 1, 16),
	"editor.fontSize":            intSetting(func(s *domain.Settings) *int { return &s.Editor.FontSize }, 6, 72),
	"editor.renderWhitespace":    boolSetting(func(s *domain.Settings) *bool { return &s.Editor.RenderWhitespace }),
	"actionOnStartup.dir":        stringSetting(func(s *domain.Settings) *string { return &s.ActionOnStartup.Dir }),
	"image.relativeFolderName":   stringSetting(func(s *domain.Settings) *string { return &s.Image.RelativeFolderName }),
	"image.globalDir":            stringSetting(func(s *domain.Settings) *string { return &s.Image.GlobalDir }),
	"image.preferRelativeFolder": boolSetting(func(s *domain.Settings) *bool { return &s.Image.PreferRelativeFolder }),
	"chat.provider": {
		get: func(s domain.Settings) string { return s.Chat.Provider },
		set: func(s *domain.Settings, v string) error {
			switch v {
			case domain.ProviderDeepSeek, domain.ProviderOpenAI, domain.ProviderClaudeCLI:
				s.Chat.Provider = v
				return nil
			}
			return fmt.Errorf("unknown chat provider %q", v)
		},
	},
	"chat.baseUrl": stringSetting(func(s *domain.Settings) *string { return &s.Chat.BaseURL }),
	"chat.model":   stringSetting(func(s *domain.Settings) *string { return &s.Chat.Model }),
	"chat.apiKey":  stringSetting(func(s *domain.Settings) *string { return &s.Chat.APIKey }),
	"actionOnStartup.action": {
		get: func(s domain.Settings) string {
			if s.ActionOnStartup.Action == domain.StartupBlankFile {
				return "blankFile"
			}
			return "openDir"
		},
		set: func(s *domain.Settings, v string) error {
			switch v {
			case "openDir":
				s.ActionOnStartup.Action = domain.StartupOpenDir
			case "blankFile":
				s.ActionOnStartup.Action = domain.StartupBlankFile
			default:
				return fmt.Errorf("expected openDir or blankFile, got %q", v)
			}
			return nil
		},
	},
}

func lookupSetting(name string) (setting, error) {
	key, ok := settingKeys[name]
	if !ok {
		return setting{}, fmt.Errorf("unknown setting %q, see 'cognitext-cli settings list'", name)
	}
	return key, nil
}

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Show or change the settings",
	Long: `Show or change the settings shared with the cognitext app.

Examples:
  cognitext-cli settings list
  cognitext-cli settings get editor.tabSize
  cognitext-cli settings set colorTheme dark`,
}

var settingsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List every setting",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		names := make([]string, 0, len(settingKeys))
		for name := range settingKeys {
			names = append(names, name)
		}
		sort.Strings(names)

		for _, name := range names {
			value := settingKeys[name].get(settings)
			if name == "chat.apiKey" && value != "" {
				value = "********"
			}
			fmt.Printf("%s = %s\n", name, value)
		}
		return nil
	},
}

var settingsGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Print one setting",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, err := lookupSetting(args[0])
		if err != nil {
			return err
		}
		fmt.Println(key.get(settings))
		return nil
	},
}

var settingsSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Change one setting",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, err := lookupSetting(args[0])
		if err != nil {
			return err
		}
		next := settings
		if err := key.set(&next, args[1]); err != nil {
			return fmt.Errorf("%s: %w", args[0], err)
		}

		// Saving goes through the settings-updated signal like in the app
		svc := application.NewSettingsService(settingsStore, events.NewBus(log), log)
		if _, err := svc.Load(); err != nil {
			return err
		}
		svc.Wire()
		defer svc.Unwire()

		svc.Update(func(s *domain.Settings) { *s = next })
		if svc.Current() != next {
			return fmt.Errorf("failed to save %s", settingsStore.Path())
		}
		fmt.Printf("%s = %s\n", args[0], key.get(next))
		return nil
	},
}

var settingsPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the settings file location",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(settingsStore.Path())
	},
}

func init() {
	rootCmd.AddCommand(settingsCmd)
	settingsCmd.AddCommand(settingsListCmd)
	settingsCmd.AddCommand(settingsGetCmd)
	settingsCmd.AddCommand(settingsSetCmd)
	settingsCmd.AddCommand(settingsPathCmd)
}
