package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/isira-aw/Metropolitan-NEW-EMS/internal/dto"
	"github.com/isira-aw/Metropolitan-NEW-EMS/internal/model"
	"github.com/isira-aw/Metropolitan-NEW-EMS/pkg/database"
)

func newMigrateCmd(open opener) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply or roll back schema migrations",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply every pending migration",
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := open()
			if err != nil {
				return err
			}
			sqlDB, err := e.db.DB()
			if err != nil {
				return err
			}
			return database.RunMigrations(sqlDB, e.logger)
		},
	})

	var steps int
	down := &cobra.Command{
		Use:   "down",
		Short: "Roll back the most recent migrations",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if steps <= 0 {
				return errors.New("--steps must be positive")
			}
			e, err := open()
			if err != nil {
				return err
			}
			sqlDB, err := e.db.DB()
			if err != nil {
				return err
			}
			return database.RollbackMigrations(sqlDB, steps, e.logger)
		},
	}
	down.Flags().IntVar(&steps, "steps", 1, "number of migrations to roll back")
	cmd.AddCommand(down)

	return cmd
}

func newScoresCmd(open opener) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scores",
		Short: "Score ledger maintenance",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "backfill",
		Short: "Credit every approved job card that has no score yet",
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := open()
			if err != nil {
				return err
			}
			svc, err := e.services()
			if err != nil {
				return err
			}
			n, err := svc.Approval.BackfillScores(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created %d scores\n", n)
			return nil
		},
	})
	return cmd
}

func newJobCardsCmd(open opener) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "jobcards",
		Short: "Job card maintenance",
	}

	var repair bool
	rebuild := &cobra.Command{
		Use:   "rebuild-minutes",
		Short: "Recompute work minutes from the status logs",
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := open()
			if err != nil {
				return err
			}
			svc, err := e.services()
			if err != nil {
				return err
			}
			res, err := svc.JobCard.RebuildWorkMinutes(cmd.Context(), repair)
			if err != nil {
				return err
			}
			printRebuild(cmd, res, repair)
			return nil
		},
	}
	rebuild.Flags().BoolVar(&repair, "repair", false, "overwrite cached minutes that disagree")
	cmd.AddCommand(rebuild)

	return cmd
}

func printRebuild(cmd *cobra.Command, res *dto.RebuildResult, repair bool) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "checked %d completed cards, %d drifted\n", res.Checked, len(res.Drifts))
	for _, d := range res.Drifts {
		fmt.Fprintf(out, "  %s  cached=%d  replayed=%d\n", d.JobCardID, d.Cached, d.Replayed)
	}
	if repair && len(res.Drifts) > 0 {
		fmt.Fprintf(out, "repaired %d cards\n", res.Repaired)
	}
}

func newUsersCmd(open opener) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "users",
		Short: "Account administration",
	}

	var req dto.CreateUserRequest
	create := &cobra.Command{
		Use:   "create-admin",
		Short: "Create an administrator account",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if req.Password == "" {
				req.Password = os.Getenv("EMS_ADMIN_PASSWORD")
			}
			if len(req.Username) < 3 {
				return errors.New("--username must be at least 3 characters")
			}
			if len(req.Password) < 8 || len(req.Password) > 72 {
				return errors.New("password must be 8 to 72 characters (--password or EMS_ADMIN_PASSWORD)")
			}
			if req.FullName == "" {
				req.FullName = req.Username
			}
			req.Role = model.RoleAdmin

			e, err := open()
			if err != nil {
				return err
			}
			svc, err := e.services()
			if err != nil {
				return err
			}
			user, err := svc.User.Create(cmd.Context(), &req, "")
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created admin %s (%s)\n", user.Username, user.ID)
			return nil
		},
	}
	create.Flags().StringVar(&req.Username, "username", "", "login name")
	create.Flags().StringVar(&req.FullName, "name", "", "display name")
	create.Flags().StringVar(&req.Email, "email", "", "email address")
	create.Flags().StringVar(&req.Password, "password", "", "password, defaults to $EMS_ADMIN_PASSWORD")
	cmd.AddCommand(create)

	return cmd
}
