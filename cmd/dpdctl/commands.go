package main

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	dpd "github.com/tlow22/dpd-client"
)

func init() {
	rootCmd.AddCommand(
		drugProductCmd(),
		companyCmd(),
		activeIngredientCmd(),
		formCmd(),
		packagingCmd(),
		pharmaceuticalStdCmd(),
		routeCmd(),
		scheduleCmd(),
		statusCmd(),
		therapeuticClassCmd(),
		veterinarySpeciesCmd(),
	)
}

func drugProductCmd() *cobra.Command {
	var q dpd.DrugProductQuery
	cmd := &cobra.Command{
		Use:   "drugproduct",
		Short: "Search drug products by id, DIN, brand name or status",
		RunE: func(cmd *cobra.Command, args []string) error {
			q.Lang = viper.GetString("lang")
			return run(func(c *dpd.Client) ([]dpd.Record, error) {
				return c.DrugProduct(cmd.Context(), q)
			})
		},
	}
	cmd.Flags().IntVar(&q.ID, "id", 0, "drug product code")
	cmd.Flags().StringVar(&q.DIN, "din", "", "drug identification number")
	cmd.Flags().StringVar(&q.BrandName, "brandname", "", "brand name (supports partial)")
	cmd.Flags().StringSliceVar(&q.Status, "status", nil, "product status code(s)")
	return cmd
}

func companyCmd() *cobra.Command {
	var q dpd.CompanyQuery
	cmd := &cobra.Command{
		Use:   "company",
		Short: "Look up a company by company code",
		RunE: func(cmd *cobra.Command, args []string) error {
			q.Lang = viper.GetString("lang")
			return run(func(c *dpd.Client) ([]dpd.Record, error) {
				return c.Company(cmd.Context(), q)
			})
		},
	}
	cmd.Flags().IntVar(&q.ID, "id", 0, "company code")
	_ = cmd.MarkFlagRequired("id")
	return cmd
}

func activeIngredientCmd() *cobra.Command {
	var q dpd.ActiveIngredientQuery
	cmd := &cobra.Command{
		Use:   "activeingredient",
		Short: "Search active ingredients by drug code or name",
		RunE: func(cmd *cobra.Command, args []string) error {
			q.Lang = viper.GetString("lang")
			return run(func(c *dpd.Client) ([]dpd.Record, error) {
				return c.ActiveIngredient(cmd.Context(), q)
			})
		},
	}
	cmd.Flags().IntVar(&q.ID, "id", 0, "drug product code")
	cmd.Flags().StringVar(&q.IngredientName, "ingredientname", "", "ingredient name filter")
	return cmd
}

func formCmd() *cobra.Command {
	var q dpd.FormQuery
	cmd := &cobra.Command{
		Use:   "form",
		Short: "List dosage forms for a drug code",
		RunE: func(cmd *cobra.Command, args []string) error {
			q.Lang = viper.GetString("lang")
			return run(func(c *dpd.Client) ([]dpd.Record, error) {
				return c.Form(cmd.Context(), q)
			})
		},
	}
	cmd.Flags().IntVar(&q.ID, "id", 0, "drug product code")
	cmd.Flags().BoolVar(&q.Active, "active", false, "only active forms")
	_ = cmd.MarkFlagRequired("id")
	return cmd
}

func packagingCmd() *cobra.Command {
	var q dpd.PackagingQuery
	cmd := &cobra.Command{
		Use:   "packaging",
		Short: "List packaging records for a drug code",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(func(c *dpd.Client) ([]dpd.Record, error) {
				return c.Packaging(cmd.Context(), q)
			})
		},
	}
	cmd.Flags().IntVar(&q.ID, "id", 0, "drug product code")
	_ = cmd.MarkFlagRequired("id")
	return cmd
}

func pharmaceuticalStdCmd() *cobra.Command {
	var q dpd.PharmaceuticalStdQuery
	cmd := &cobra.Command{
		Use:   "pharmaceuticalstd",
		Short: "List pharmaceutical standards for a drug code",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(func(c *dpd.Client) ([]dpd.Record, error) {
				return c.PharmaceuticalStd(cmd.Context(), q)
			})
		},
	}
	cmd.Flags().IntVar(&q.ID, "id", 0, "drug product code")
	_ = cmd.MarkFlagRequired("id")
	return cmd
}

func routeCmd() *cobra.Command {
	var q dpd.RouteQuery
	cmd := &cobra.Command{
		Use:   "route",
		Short: "List routes of administration for a drug code",
		RunE: func(cmd *cobra.Command, args []string) error {
			q.Lang = viper.GetString("lang")
			return run(func(c *dpd.Client) ([]dpd.Record, error) {
				return c.Route(cmd.Context(), q)
			})
		},
	}
	cmd.Flags().IntVar(&q.ID, "id", 0, "drug product code")
	cmd.Flags().BoolVar(&q.Active, "active", false, "only active routes")
	_ = cmd.MarkFlagRequired("id")
	return cmd
}

func scheduleCmd() *cobra.Command {
	var q dpd.ScheduleQuery
	cmd := &cobra.Command{
		Use:   "schedule",
		Short: "List schedules for a drug code",
		RunE: func(cmd *cobra.Command, args []string) error {
			q.Lang = viper.GetString("lang")
			return run(func(c *dpd.Client) ([]dpd.Record, error) {
				return c.Schedule(cmd.Context(), q)
			})
		},
	}
	cmd.Flags().IntVar(&q.ID, "id", 0, "drug product code")
	cmd.Flags().BoolVar(&q.Active, "active", false, "only active schedules")
	_ = cmd.MarkFlagRequired("id")
	return cmd
}

func statusCmd() *cobra.Command {
	var q dpd.StatusQuery
	cmd := &cobra.Command{
		Use:   "status",
		Short: "List product status history for a drug code",
		RunE: func(cmd *cobra.Command, args []string) error {
			q.Lang = viper.GetString("lang")
			return run(func(c *dpd.Client) ([]dpd.Record, error) {
				return c.Status(cmd.Context(), q)
			})
		},
	}
	cmd.Flags().IntVar(&q.ID, "id", 0, "drug product code")
	_ = cmd.MarkFlagRequired("id")
	return cmd
}

func therapeuticClassCmd() *cobra.Command {
	var q dpd.TherapeuticClassQuery
	cmd := &cobra.Command{
		Use:   "therapeuticclass",
		Short: "List therapeutic classes for a drug code",
		RunE: func(cmd *cobra.Command, args []string) error {
			q.Lang = viper.GetString("lang")
			return run(func(c *dpd.Client) ([]dpd.Record, error) {
				return c.TherapeuticClass(cmd.Context(), q)
			})
		},
	}
	cmd.Flags().IntVar(&q.ID, "id", 0, "drug product code")
	_ = cmd.MarkFlagRequired("id")
	return cmd
}

func veterinarySpeciesCmd() *cobra.Command {
	var q dpd.VeterinarySpeciesQuery
	cmd := &cobra.Command{
		Use:   "veterinaryspecies",
		Short: "List veterinary species for a drug code",
		RunE: func(cmd *cobra.Command, args []string) error {
			q.Lang = viper.GetString("lang")
			return run(func(c *dpd.Client) ([]dpd.Record, error) {
				return c.VeterinarySpecies(cmd.Context(), q)
			})
		},
	}
	cmd.Flags().IntVar(&q.ID, "id", 0, "drug product code")
	_ = cmd.MarkFlagRequired("id")
	return cmd
}
