package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"directory/internal/adapters/directoryclient"
	"directory/internal/application/accumulator"
	"directory/internal/domain/member"
)

var (
	membersSearch     string
	membersGenders    []string
	membersProfession string
	membersAges       []string
	membersPages      int
	membersPageSize   int
	membersJSON       bool
)

var membersCmd = &cobra.Command{
	Use:   "members",
	Short: "List members page by page",
	Long: `Lists member cards from the server. --pages loads that many pages
through the same accumulator the list view uses; --age filters the loaded
cards locally by bucket (under-18, 18-24, 25-34, 35-44, 45-54, 55+).`,
	Args: cobra.NoArgs,
	RunE: runMembers,
}

var memberCmd = &cobra.Command{
	Use:   "member <id>",
	Short: "Show one member with contact links",
	Args:  cobra.ExactArgs(1),
	RunE:  runMember,
}

var familyCmd = &cobra.Command{
	Use:   "family <family-no>",
	Short: "List the members of a family, head first",
	Args:  cobra.ExactArgs(1),
	RunE:  runFamily,
}

func init() {
	f := membersCmd.Flags()
	f.StringVarP(&membersSearch, "q", "q", "", "Search name, surname, city and occupation")
	f.StringSliceVar(&membersGenders, "gender", nil, "Gender filter (repeatable)")
	f.StringVar(&membersProfession, "profession", "", "Occupation filter")
	f.StringSliceVar(&membersAges, "age", nil, "Age bucket filter applied to loaded cards (repeatable)")
	f.IntVar(&membersPages, "pages", 1, "Number of pages to load")
	f.IntVar(&membersPageSize, "page-size", accumulator.DefaultPageSize, "Rows per page")
	f.BoolVar(&membersJSON, "json", false, "Print the accumulator snapshot as JSON")
}

func runMembers(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()

	acc := accumulator.New(directoryclient.New(serverURL), accumulator.Options{PageSize: membersPageSize})
	acc.SetAgeBuckets(membersAges...)
	q := accumulator.Query{Search: membersSearch, Genders: membersGenders, Profession: membersProfession}
	if err := acc.SetQuery(ctx, q); err != nil {
		return err
	}
	for i := 1; i < membersPages && acc.HasMore(); i++ {
		if err := acc.LoadMore(ctx); err != nil {
			return err
		}
	}

	snap := acc.Snapshot()
	out := cmd.OutOrStdout()
	if membersJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(snap)
	}
	printCards(out, snap.Visible)
	more := ""
	if snap.HasMore {
		more = ", more available"
	}
	fmt.Fprintf(out, "\n%d shown, %d of %d loaded%s\n", len(snap.Visible), snap.Loaded, snap.Total, more)
	return nil
}

func runMember(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()

	detail, err := directoryclient.New(serverURL).Member(ctx, args[0])
	if err != nil {
		return fmt.Errorf("member %s: %w", args[0], err)
	}
	out := cmd.OutOrStdout()
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	c := detail.Card
	rows := [][2]string{
		{"ID", c.ID},
		{"Name", c.DisplayName},
		{"Age", c.Age.String()},
		{"Location", c.Location},
		{"Profession", c.Profession},
		{"Family", c.FamilyNo},
		{"Relationship", c.Relationship},
		{"Picture", c.DisplayImage},
		{"Call", detail.Contact.Call},
		{"SMS", detail.Contact.SMS},
		{"WhatsApp", detail.Contact.WhatsApp},
		{"Email", detail.Contact.Email},
	}
	for _, r := range rows {
		if r[1] == "" {
			continue
		}
		fmt.Fprintf(tw, "%s:\t%s\n", r[0], r[1])
	}
	return tw.Flush()
}

func runFamily(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()

	family, err := directoryclient.New(serverURL).Family(ctx, args[0])
	if err != nil {
		return fmt.Errorf("family %s: %w", args[0], err)
	}
	out := cmd.OutOrStdout()
	if len(family.Members) == 0 {
		fmt.Fprintf(out, "no members in family %s\n", args[0])
		return nil
	}
	printCards(out, family.Members)
	return nil
}

func printCards(w io.Writer, cards []member.Card) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tAGE\tLOCATION\tPROFESSION")
	for _, c := range cards {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", c.ID, c.DisplayName, c.Age, c.Location, c.Profession)
	}
	tw.Flush()
}
