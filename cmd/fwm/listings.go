package main

import (
	"fmt"
	"strconv"
	"strings"

	"fwm-go/internal/app"
	"fwm-go/internal/model"
	"fwm-go/internal/render"

	"github.com/spf13/cobra"
)

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid id %q", s)
	}
	return id, nil
}

// listingInput collects the listing flags shared by add and update.
func listingInput(cmd *cobra.Command) app.ListingInput {
	var in app.ListingInput
	in.ID, _ = cmd.Flags().GetInt64("id")
	in.Name, _ = cmd.Flags().GetString("name")
	in.Quantity, _ = cmd.Flags().GetInt64("quantity")
	in.ExpiryDate, _ = cmd.Flags().GetString("expiry")
	in.ProviderID, _ = cmd.Flags().GetInt64("provider-id")
	in.FoodType, _ = cmd.Flags().GetString("food-type")
	in.MealType, _ = cmd.Flags().GetString("meal-type")
	return in
}

// listings command
var listingsCmd = &cobra.Command{
	Use:   "listings",
	Short: "List food listings, optionally filtered",
	RunE: func(cmd *cobra.Command, args []string) error {
		var f model.ListingFilter
		f.City, _ = cmd.Flags().GetString("city")
		f.ProviderType, _ = cmd.Flags().GetString("provider-type")
		foodType, _ := cmd.Flags().GetString("food-type")
		mealType, _ := cmd.Flags().GetString("meal-type")
		f.FoodType = model.FoodType(foodType)
		f.MealType = model.MealType(mealType)

		a, err := loadedApp(cmd, "listings")
		if err != nil {
			return err
		}
		defer a.Close()

		listings, err := a.Service().FilterListings(cmd.Context(), f)
		if err != nil {
			return a.Fail(err)
		}
		return printTable(render.Listings(listings))
	},
}

var listingsOptionsCmd = &cobra.Command{
	Use:   "options",
	Short: "Show the values each listing filter accepts",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := loadedApp(cmd, "listings options")
		if err != nil {
			return err
		}
		defer a.Close()

		opts, err := a.Service().FilterOptions(cmd.Context())
		if err != nil {
			return a.Fail(err)
		}
		fmt.Printf("Locations:      %s\n", strings.Join(opts.Locations, ", "))
		fmt.Printf("Provider types: %s\n", strings.Join(opts.ProviderTypes, ", "))
		fmt.Printf("Food types:     %s\n", strings.Join(opts.FoodTypes, ", "))
		fmt.Printf("Meal types:     %s\n", strings.Join(opts.MealTypes, ", "))
		return nil
	},
}

var listingsShowCmd = &cobra.Command{
	Use:   "show ID",
	Short: "Show one listing",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}

		a, err := loadedApp(cmd, "listings show")
		if err != nil {
			return err
		}
		defer a.Close()

		l, err := a.Service().GetListing(cmd.Context(), id)
		if err != nil {
			return a.Fail(err)
		}
		return printTable(render.Listing(l))
	},
}

var listingsAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a listing for an existing provider",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := loadedApp(cmd, "listings add")
		if err != nil {
			return err
		}
		defer a.Close()

		l, err := a.CreateListing(cmd.Context(), listingInput(cmd))
		if err != nil {
			return err
		}
		fmt.Printf("Added listing %d\n", l.ID)
		return printTable(render.Listing(l))
	},
}

var listingsUpdateCmd = &cobra.Command{
	Use:   "update ID",
	Short: "Overwrite the mutable fields of a listing",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}

		a, err := loadedApp(cmd, "listings update")
		if err != nil {
			return err
		}
		defer a.Close()

		l, err := a.UpdateListing(cmd.Context(), id, listingInput(cmd))
		if err != nil {
			return err
		}
		return printTable(render.Listing(l))
	},
}

var listingsDeleteCmd = &cobra.Command{
	Use:   "delete ID",
	Short: "Delete a listing and its claims",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}

		a, err := loadedApp(cmd, "listings delete")
		if err != nil {
			return err
		}
		defer a.Close()

		res, err := a.DeleteListing(cmd.Context(), id)
		if err != nil {
			return err
		}
		if !res.ListingDeleted {
			fmt.Printf("No listing %d.\n", id)
			return nil
		}
		fmt.Printf("Deleted listing %d and %d claim(s)\n", id, res.ClaimsDeleted)
		return nil
	},
}

// claims command
var claimsCmd = &cobra.Command{
	Use:   "claims",
	Short: "Show claim history, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := loadedApp(cmd, "claims")
		if err != nil {
			return err
		}
		defer a.Close()

		claims, err := a.Service().ClaimHistory(cmd.Context())
		if err != nil {
			return a.Fail(err)
		}
		return printTable(render.Claims(claims))
	},
}

var claimsSubmitCmd = &cobra.Command{
	Use:   "submit",
	Short: "Record a claim on a listing",
	RunE: func(cmd *cobra.Command, args []string) error {
		foodID, _ := cmd.Flags().GetInt64("food-id")
		receiverID, _ := cmd.Flags().GetInt64("receiver-id")
		status, _ := cmd.Flags().GetString("status")

		a, err := loadedApp(cmd, "claims submit")
		if err != nil {
			return err
		}
		defer a.Close()

		c, err := a.SubmitClaim(cmd.Context(), foodID, receiverID, status)
		if err != nil {
			return err
		}
		fmt.Printf("Claim %d: food %d by receiver %d, %s at %s\n",
			c.ID, c.FoodID, c.ReceiverID, c.Status, c.Timestamp.Format("2006-01-02 15:04:05"))
		return nil
	},
}

// providers command
var providersCmd = &cobra.Command{
	Use:   "providers",
	Short: "List providers",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := loadedApp(cmd, "providers")
		if err != nil {
			return err
		}
		defer a.Close()

		providers, err := a.Service().ListProviders(cmd.Context())
		if err != nil {
			return a.Fail(err)
		}
		return printTable(render.Providers(providers))
	},
}

// receivers command
var receiversCmd = &cobra.Command{
	Use:   "receivers",
	Short: "List receivers",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := loadedApp(cmd, "receivers")
		if err != nil {
			return err
		}
		defer a.Close()

		receivers, err := a.Service().ListReceivers(cmd.Context())
		if err != nil {
			return a.Fail(err)
		}
		return printTable(render.Receivers(receivers))
	},
}

func addListingFlags(cmd *cobra.Command) {
	cmd.Flags().String("name", "", "Food name")
	cmd.Flags().Int64("quantity", 0, "Quantity")
	cmd.Flags().String("expiry", "", "Expiry date (YYYY-MM-DD or M/D/YYYY)")
	cmd.Flags().String("food-type", "", "Vegetarian, Non-Vegetarian or Vegan")
	cmd.Flags().String("meal-type", "", "Breakfast, Lunch, Dinner or Snacks")
}

func init() {
	listingsCmd.Flags().String("city", "", "Filter by location")
	listingsCmd.Flags().String("provider-type", "", "Filter by provider type")
	listingsCmd.Flags().String("food-type", "", "Filter by food type")
	listingsCmd.Flags().String("meal-type", "", "Filter by meal type")

	addListingFlags(listingsAddCmd)
	listingsAddCmd.Flags().Int64("id", 0, "Listing id (default next free id)")
	listingsAddCmd.Flags().Int64("provider-id", 0, "Provider id")
	addListingFlags(listingsUpdateCmd)

	listingsCmd.AddCommand(listingsOptionsCmd)
	listingsCmd.AddCommand(listingsShowCmd)
	listingsCmd.AddCommand(listingsAddCmd)
	listingsCmd.AddCommand(listingsUpdateCmd)
	listingsCmd.AddCommand(listingsDeleteCmd)

	claimsSubmitCmd.Flags().Int64("food-id", 0, "Listing id")
	claimsSubmitCmd.Flags().Int64("receiver-id", 0, "Receiver id")
	claimsSubmitCmd.Flags().String("status", "Pending", "Pending, Completed or Cancelled")
	claimsCmd.AddCommand(claimsSubmitCmd)

	rootCmd.AddCommand(providersCmd)
	rootCmd.AddCommand(receiversCmd)
}
