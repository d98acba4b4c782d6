// Conveyor CLI — инструмент развёртывания Python-приложения
// как Windows-службы.
//
// Использование:
//
//	conveyor [--agent-url URL] [--json] <command> <subcommand> [flags]
//
// Команды:
//
//	deploy   Запуск и история deploys
//	service  Состояние и удаление установленной службы
//	bundle   Сборка deployment-пакета
//	login    Сохранение токена агента
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/shaiso/Conveyor/internal/cli"
	"github.com/shaiso/Conveyor/internal/telemetry"
)

// version задаётся через ldflags при сборке.
var version = "dev"

func main() {
	// Статусные строки шагов уже идут в stderr; логи — только
	// для предупреждений, если оператор не попросил больше
	if os.Getenv("LOG_LEVEL") == "" {
		os.Setenv("LOG_LEVEL", "WARN")
	}
	telemetry.SetupLogger()

	var agentURL string
	var jsonOutput bool

	rootCmd := &cobra.Command{
		Use:           "conveyor",
		Short:         "Conveyor — Windows service deployment tool",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	defaultAgentURL := os.Getenv("CONVEYOR_AGENT_URL")
	if defaultAgentURL == "" {
		defaultAgentURL = "http://localhost:8080"
	}

	rootCmd.PersistentFlags().StringVar(&agentURL, "agent-url", defaultAgentURL, "Agent API URL")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")

	clientFn := func() *cli.Client { return cli.NewClient(agentURL, cli.Token()) }
	outputFn := func() *cli.Output { return cli.NewOutput(jsonOutput) }

	rootCmd.AddCommand(
		cli.NewDeployCmd(clientFn, outputFn),
		cli.NewServiceCmd(outputFn),
		cli.NewBundleCmd(outputFn),
		cli.NewLoginCmd(outputFn),
		cli.NewLogoutCmd(outputFn),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
