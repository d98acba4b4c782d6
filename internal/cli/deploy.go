package cli

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/shaiso/Conveyor/internal/config"
	"github.com/shaiso/Conveyor/internal/domain"
	"github.com/shaiso/Conveyor/internal/pipeline"
	"github.com/shaiso/Conveyor/internal/steps"
)

// specFlags — флаги, перекрывающие конфиг deploy.
type specFlags struct {
	configPath  string
	appDir      string
	serviceName string
	pythonPath  string
	entryPoint  string
	port        int
	nssmURL     string
}

func (f *specFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.configPath, "config", "", "Path to conveyor.yaml (default: ./conveyor.yaml if present)")
	cmd.Flags().StringVar(&f.appDir, "app-dir", "", "Target application directory")
	cmd.Flags().StringVar(&f.serviceName, "service-name", "", "Windows service name")
	cmd.Flags().StringVar(&f.pythonPath, "python", "", "Path to the Python interpreter")
	cmd.Flags().StringVar(&f.entryPoint, "entry-point", "", "Application entry script")
	cmd.Flags().IntVar(&f.port, "port", 0, "Application port (for the summary address)")
	cmd.Flags().StringVar(&f.nssmURL, "nssm-url", "", "NSSM download URL")
}

// resolve собирает DeploySpec: конфиг-файл, затем флаги поверх.
func (f *specFlags) resolve() (domain.DeploySpec, error) {
	cfg, err := config.Load(f.configPath)
	if err != nil {
		return domain.DeploySpec{}, err
	}

	spec := cfg.Deploy
	if f.appDir != "" {
		spec.AppDir = f.appDir
	}
	if f.serviceName != "" {
		spec.ServiceName = f.serviceName
	}
	if f.pythonPath != "" {
		spec.PythonPath = f.pythonPath
	}
	if f.entryPoint != "" {
		spec.EntryPoint = f.entryPoint
	}
	if f.port != 0 {
		spec.Port = f.port
	}
	if f.nssmURL != "" {
		spec.NSSMURL = f.nssmURL
	}

	spec.Normalize()
	if err := spec.Validate(); err != nil {
		return domain.DeploySpec{}, err
	}
	return spec, nil
}

// NewDeployCmd создаёт группу команд для управления deploys.
func NewDeployCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "deploy",
		Short: "Manage deploys",
	}

	cmd.AddCommand(
		newDeployRunCmd(clientFn, outputFn),
		newDeployListCmd(clientFn, outputFn),
		newDeployShowCmd(clientFn, outputFn),
	)

	return cmd
}

func newDeployRunCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	var flags specFlags
	var remote bool
	var window string
	var wait bool

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Install and start the service (local by default, --remote via agent)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := outputFn()

			spec, err := flags.resolve()
			if err != nil {
				return err
			}

			if remote {
				return runRemoteDeploy(cmd, clientFn(), out, spec, window, wait)
			}

			if window != "" {
				return fmt.Errorf("--window requires --remote (local deploys run immediately)")
			}

			return runLocalDeploy(cmd, out, spec)
		},
	}

	flags.register(cmd)
	cmd.Flags().BoolVar(&remote, "remote", false, "Send the deploy to the agent instead of running locally")
	cmd.Flags().StringVar(&window, "window", "", "Maintenance window as a cron expression (remote only)")
	cmd.Flags().BoolVar(&wait, "wait", false, "Wait for the remote deploy to finish")

	return cmd
}

// runLocalDeploy выполняет pipeline на этой машине.
func runLocalDeploy(cmd *cobra.Command, out *Output, spec domain.DeploySpec) error {
	logger := slog.Default()

	env := steps.NewEnv(spec, logger)
	runner := pipeline.NewRunner(pipeline.Config{
		Steps:  steps.Sequence(env),
		Logger: logger,
		OnStep: out.Step,
	})

	records, err := runner.Run(cmd.Context())
	if err != nil {
		out.Failure(err)
		if out.jsonMode {
			out.JSON(records)
		}
		return err
	}

	out.Summary(spec)
	if out.jsonMode {
		out.JSON(records)
	}
	return nil
}

// runRemoteDeploy отправляет deploy агенту.
func runRemoteDeploy(cmd *cobra.Command, client *Client, out *Output, spec domain.DeploySpec, window string, wait bool) error {
	req := CreateDeployRequest{
		AppDir:      spec.AppDir,
		ServiceName: spec.ServiceName,
		PythonPath:  spec.PythonPath,
		EntryPoint:  spec.EntryPoint,
		Port:        spec.Port,
		NSSMURL:     spec.NSSMURL,
		Description: spec.Description,
		Window:      window,
	}

	deploy, err := client.CreateDeploy(req)
	if err != nil {
		return err
	}

	out.Success(fmt.Sprintf("Deploy created: %s", deploy.ID))

	if !wait {
		out.Print(
			[]string{"ID", "SERVICE", "STATUS", "NOT_BEFORE", "CREATED"},
			[][]string{{deploy.ID, deploy.ServiceName(), deploy.Status, deploy.NotBefore, deploy.CreatedAt}},
			deploy,
		)
		return nil
	}

	deploy, err = client.WaitDeploy(deploy.ID, 2*time.Second, 30*time.Minute)
	if err != nil {
		return err
	}

	printRemoteSteps(out, deploy)

	if deploy.Status == "FAILED" {
		return fmt.Errorf("deploy failed: %s", deploy.Error)
	}

	out.Summary(spec)
	return nil
}

// printRemoteSteps выводит результаты шагов завершённого deploy.
func printRemoteSteps(out *Output, deploy *DeployResponse) {
	if out.jsonMode {
		out.JSON(deploy)
		return
	}
	for _, s := range deploy.Steps {
		dur, _ := time.ParseDuration(s.Duration)
		out.Step(domain.StepRecord{
			Name:     s.Name,
			Outcome:  domain.StepOutcome(s.Outcome),
			Error:    s.Error,
			Duration: dur,
		})
	}
}

func newDeployListCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	var status string
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List deploys on the agent",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			deploys, err := client.ListDeploys(ListDeploysOpts{
				Status: status,
				Limit:  limit,
			})
			if err != nil {
				return err
			}

			headers := []string{"ID", "SERVICE", "STATUS", "ERROR", "CREATED"}
			rows := make([][]string, len(deploys))
			for i, d := range deploys {
				rows[i] = []string{d.ID, d.ServiceName(), d.Status, d.Error, d.CreatedAt}
			}

			out.Print(headers, rows, deploys)
			return nil
		},
	}

	cmd.Flags().StringVar(&status, "status", "", "Filter by status (PENDING, RUNNING, SUCCEEDED, FAILED)")
	cmd.Flags().IntVar(&limit, "limit", 0, "Maximum number of results")

	return cmd
}

func newDeployShowCmd(clientFn func() *Client, outputFn func() *Output) *cobra.Command {
	return &cobra.Command{
		Use:   "show ID",
		Short: "Show deploy details with step results",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := clientFn()
			out := outputFn()

			deploy, err := client.GetDeploy(args[0])
			if err != nil {
				return err
			}

			if out.jsonMode {
				out.JSON(deploy)
				return nil
			}

			out.Table(
				[]string{"ID", "SERVICE", "STATUS", "ERROR", "CREATED"},
				[][]string{{deploy.ID, deploy.ServiceName(), deploy.Status, deploy.Error, deploy.CreatedAt}},
			)
			for _, s := range deploy.Steps {
				dur, _ := time.ParseDuration(s.Duration)
				out.Step(domain.StepRecord{
					Name:     s.Name,
					Outcome:  domain.StepOutcome(s.Outcome),
					Error:    s.Error,
					Duration: dur,
				})
			}
			return nil
		},
	}
}
