package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"phoneline/internal/logging"
	"phoneline/internal/menu"
	"phoneline/internal/restaurant"
	"phoneline/internal/upstream"
)

const defaultBaseURL = "https://phoneline-dashboard-backend-63qdm.ondigitalocean.app/api"

// app carries the global flags shared by every subcommand.
type app struct {
	file     string
	phone    string
	baseURL  string
	timeout  time.Duration
	logLevel string

	logger *zap.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{logger: zap.NewNop()}

	root := &cobra.Command{
		Use:   "menu-demo",
		Short: "Restaurant menu explorer",
		Long: `Explore a restaurant menu the way the phone agent sees it: normalized,
tax-inclusive prices and customization pricing.

The menu comes from --file, from the restaurant-data service when --phone is
given, or from the built-in Curry Delights sample.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			logger, err := logging.New("development", a.logLevel)
			if err != nil {
				return err
			}
			a.logger = logger
			return nil
		},
	}

	flags := root.PersistentFlags()
	flags.StringVarP(&a.file, "file", "f", "", "restaurant document (.json, .yaml, .yml)")
	flags.StringVar(&a.phone, "phone", "", "fetch the restaurant behind this phone line")
	flags.StringVar(&a.baseURL, "base-url", defaultBaseURL, "restaurant-data service base URL")
	flags.DurationVar(&a.timeout, "timeout", 15*time.Second, "upstream request timeout")
	flags.StringVar(&a.logLevel, "log-level", "warn", "log level (debug, info, warn, error)")

	root.AddCommand(
		newListCmd(a),
		newShowCmd(a),
		newDemoCmd(a),
		newTokenCmd(),
	)
	return root
}

// load resolves the restaurant document named by the global flags.
func (a *app) load(ctx context.Context) (*menu.Upstream, error) {
	switch {
	case a.file != "":
		return loadFile(a.file)
	case a.phone != "":
		phone, err := restaurant.NormalizePhone(a.phone)
		if err != nil {
			return nil, fmt.Errorf("--phone %q: %w", a.phone, err)
		}
		a.logger.Info("fetching restaurant", zap.String("phone", phone), zap.String("base_url", a.baseURL))
		client := upstream.NewClient(a.baseURL, a.timeout, a.logger)
		return client.FetchRestaurant(ctx, phone)
	default:
		return menu.SampleDocument(), nil
	}
}

// loadFile decodes a restaurant document. YAML is converted to JSON first so
// both formats go through the same lenient decoder.
func loadFile(path string) (*menu.Upstream, error) {
	if err := menu.ValidateFileExtension(path); err != nil {
		return nil, err
	}

	body, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	if menu.IsYAMLFile(path) {
		var doc any
		if err := yaml.Unmarshal(body, &doc); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
		if body, err = json.Marshal(doc); err != nil {
			return nil, fmt.Errorf("convert %s: %w", path, err)
		}
	}

	return upstream.Decode(body)
}

// parseSelections turns repeated "Customization=Option" flags into a map.
func parseSelections(raw []string) (map[string]string, error) {
	if len(raw) == 0 {
		return nil, nil
	}

	selections := make(map[string]string, len(raw))
	for _, s := range raw {
		name, option, ok := strings.Cut(s, "=")
		name, option = strings.TrimSpace(name), strings.TrimSpace(option)
		if !ok || name == "" || option == "" {
			return nil, fmt.Errorf("invalid selection %q, want Customization=Option", s)
		}
		selections[name] = option
	}
	return selections, nil
}
