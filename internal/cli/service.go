package cli

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/shaiso/Conveyor/internal/domain"
	"github.com/shaiso/Conveyor/internal/host"
	"github.com/shaiso/Conveyor/internal/winsvc"
)

// NewServiceCmd создаёт группу команд для управления установленной службой.
// Команды локальные: работают с SCM этой машины.
func NewServiceCmd(outputFn func() *Output) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "service",
		Short: "Manage the installed Windows service (local)",
	}

	cmd.AddCommand(
		newServiceStatusCmd(outputFn),
		newServiceRemoveCmd(outputFn),
	)

	return cmd
}

// serviceManager собирает Manager для локальной машины.
func serviceManager(flags *specFlags) (winsvc.Manager, domain.DeploySpec, error) {
	spec, err := flags.resolve()
	if err != nil {
		return nil, domain.DeploySpec{}, err
	}
	runner := host.NewExecRunner()
	return winsvc.NewNSSM(runner, spec.NSSMExe(), slog.Default()), spec, nil
}

func newServiceStatusCmd(outputFn func() *Output) *cobra.Command {
	var flags specFlags

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show the current state of the service",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := outputFn()

			mgr, spec, err := serviceManager(&flags)
			if err != nil {
				return err
			}

			state, err := mgr.State(cmd.Context(), spec.ServiceName)
			if err != nil {
				return err
			}

			out.Print(
				[]string{"SERVICE", "STATE", "PATH", "ADDRESS"},
				[][]string{{spec.ServiceName, string(state), spec.AppDir, fmt.Sprintf("http://localhost:%d", spec.Port)}},
				map[string]string{"service": spec.ServiceName, "state": string(state)},
			)
			return nil
		},
	}

	flags.register(cmd)
	return cmd
}

func newServiceRemoveCmd(outputFn func() *Output) *cobra.Command {
	var flags specFlags

	cmd := &cobra.Command{
		Use:   "remove",
		Short: "Stop and unregister the service",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := outputFn()

			mgr, spec, err := serviceManager(&flags)
			if err != nil {
				return err
			}

			state, err := mgr.State(cmd.Context(), spec.ServiceName)
			if err != nil {
				return err
			}
			if state == domain.ServiceNotInstalled {
				out.Success(fmt.Sprintf("Service %s is not installed", spec.ServiceName))
				return nil
			}

			if state != domain.ServiceStopped {
				if err := mgr.Stop(cmd.Context(), spec.ServiceName, spec.StopTimeout); err != nil {
					return fmt.Errorf("stop service: %w", err)
				}
			}

			if err := mgr.Remove(cmd.Context(), spec.ServiceName); err != nil {
				return fmt.Errorf("remove service: %w", err)
			}

			out.Success(fmt.Sprintf("Service %s removed", spec.ServiceName))
			return nil
		},
	}

	flags.register(cmd)
	return cmd
}
