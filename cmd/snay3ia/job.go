package main

import (
	"fmt"
	"strings"

	"github.com/salemkamoundev/Snay3ia/internal/job"
	"github.com/salemkamoundev/Snay3ia/internal/models"
	"github.com/spf13/cobra"
)

func newJobCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "job",
		Short: "Job inspection commands",
	}

	cmd.AddCommand(newJobListCmd())
	cmd.AddCommand(newJobShowCmd())
	return cmd
}

func newJobListCmd() *cobra.Command {
	var (
		configPath string
		owner      string
		worker     string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List jobs",
		Long:  "Lists open jobs by default. Use --owner or --worker to list one user's jobs instead.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runJobList(cmd, configPath, owner, worker)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "snay3ia.yaml", "path to Snay3ia config file")
	cmd.Flags().StringVar(&owner, "owner", "", "list jobs created by this user ID")
	cmd.Flags().StringVar(&worker, "worker", "", "list jobs assigned to this worker ID")
	return cmd
}

func runJobList(cmd *cobra.Command, configPath, owner, worker string) error {
	out := cmd.OutOrStdout()

	_, gormDB, err := openFromConfig(configPath)
	if err != nil {
		return err
	}

	var jobs []models.Job
	switch {
	case owner != "":
		jobs, err = job.ListForOwner(gormDB, owner)
	case worker != "":
		jobs, err = job.ListForWorker(gormDB, worker)
	default:
		jobs, err = job.ListOpen(gormDB)
	}
	if err != nil {
		return err
	}

	if len(jobs) == 0 {
		fmt.Fprintln(out, "No jobs.")
		return nil
	}
	for _, j := range jobs {
		fmt.Fprintf(out, "%s  %-10s  %2d proposal(s)  %s\n",
			j.ID, j.Status, len(j.Proposals), truncate(j.Description, 60))
	}
	return nil
}

func newJobShowCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "show <job-id>",
		Short: "Show one job in detail",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runJobShow(cmd, configPath, args[0])
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "snay3ia.yaml", "path to Snay3ia config file")
	return cmd
}

func runJobShow(cmd *cobra.Command, configPath, jobID string) error {
	out := cmd.OutOrStdout()

	_, gormDB, err := openFromConfig(configPath)
	if err != nil {
		return err
	}

	j, err := job.Get(gormDB, jobID)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "Job:         %s\n", j.ID)
	fmt.Fprintf(out, "Status:      %s\n", j.Status)
	fmt.Fprintf(out, "Owner:       %s\n", j.OwnerID)
	fmt.Fprintf(out, "Created:     %s\n", j.CreatedAt.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(out, "Description: %s\n", j.Description)
	if urls := j.MediaURLList(); len(urls) > 0 {
		fmt.Fprintf(out, "Media:       %s\n", strings.Join(urls, ", "))
	}

	if j.WorkerID != "" {
		fmt.Fprintf(out, "Worker:      %s at %.2f TND\n", j.WorkerID, j.AcceptedPrice)
	}

	switch {
	case j.Analysis() != nil:
		a := j.Analysis()
		fmt.Fprintln(out, "\nDiagnosis:")
		fmt.Fprintf(out, "  Tools:  %s\n", strings.Join(a.RecommendedTools, ", "))
		fmt.Fprintf(out, "  Price:  %s\n", a.EstimatedPrice)
		fmt.Fprintf(out, "  Advice: %s\n", a.Advice)
	case j.ErrorMessage != "":
		fmt.Fprintf(out, "\nDiagnosis failed: %s\n", j.ErrorMessage)
	default:
		fmt.Fprintf(out, "\nDiagnosis: %s\n", j.AIState)
	}

	if len(j.Proposals) > 0 {
		fmt.Fprintln(out, "\nProposals:")
		for _, p := range j.Proposals {
			marker := " "
			if j.WorkerID == p.WorkerID {
				marker = "*"
			}
			fmt.Fprintf(out, "  %s %s  %.2f TND  %s\n", marker, p.WorkerID, p.Price, truncate(p.Description, 50))
		}
	}
	return nil
}
