package main

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/hypernova-labs/kassa-sdk/internal/config"
	"github.com/hypernova-labs/kassa-sdk/internal/logging"
	"github.com/hypernova-labs/kassa-sdk/pkg/client"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var version = "1.0.0"

// app guarda los flags globales y la configuración resuelta
type app struct {
	host       string
	shopID     string
	secretKey  string
	queue      string
	apiVersion string
	timeout    time.Duration

	named  client.NamedQueues
	logger *logrus.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "kassactl",
		Short: "kassactl - operator CLI for KOMTET Kassa",
		Long: `kassactl talks to the KOMTET Kassa REST API with a signed client.

Credentials are read from flags or from the KASSA_* environment variables
(a .env file in the working directory is loaded when present).`,
		Version:           version,
		SilenceUsage:      true,
		PersistentPreRunE: a.load,
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.host, "host", "", "API host, scheme://hostname (default $KASSA_HOST)")
	flags.StringVar(&a.shopID, "shop-id", "", "shop identifier (default $KASSA_SHOP_ID)")
	flags.StringVar(&a.secretKey, "secret", "", "shop secret key (default $KASSA_SECRET_KEY)")
	flags.StringVarP(&a.queue, "queue", "q", "", "print queue ID or alias (default $KASSA_QUEUE_ID)")
	flags.StringVar(&a.apiVersion, "api-version", "", "API version segment (default $KASSA_API_VERSION)")
	flags.DurationVar(&a.timeout, "timeout", 0, "HTTP timeout (default $KASSA_TIMEOUT)")

	root.AddCommand(
		newVATCmd(),
		newQueueCmd(a),
		newTaskCmd(a),
		newOrdersCmd(a),
		newEmployeesCmd(a),
	)
	return root
}

// load completa los flags vacíos con la configuración del entorno
func (a *app) load(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	a.logger = logging.NewWithOutput(cfg.Logging, cmd.ErrOrStderr())

	if a.host == "" {
		a.host = cfg.Kassa.Host
	}
	if a.shopID == "" {
		a.shopID = cfg.Kassa.ShopID
	}
	if a.secretKey == "" {
		a.secretKey = cfg.Kassa.SecretKey
	}
	if a.apiVersion == "" {
		a.apiVersion = cfg.Kassa.APIVersion
	}
	if a.timeout == 0 {
		a.timeout = cfg.Kassa.Timeout
	}
	a.named = cfg.Kassa.NamedQueues
	if a.queue == "" && cfg.Kassa.DefaultQueue != "" {
		a.queue = cfg.Kassa.DefaultQueue
	}
	return nil
}

func (a *app) client() (*client.Client, error) {
	if a.shopID == "" || a.secretKey == "" {
		return nil, fmt.Errorf("shop ID and secret key are required (--shop-id/--secret or KASSA_SHOP_ID/KASSA_SECRET_KEY)")
	}
	return client.New(a.shopID, a.secretKey,
		client.WithHost(a.host),
		client.WithAPIVersion(a.apiVersion),
		client.WithTimeout(a.timeout),
		client.WithNamedQueues(a.named),
		client.WithLogger(a.logger),
	), nil
}

func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
