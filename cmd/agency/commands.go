package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"AgencyEngine/internal/model"
	"AgencyEngine/internal/notifier"
	"AgencyEngine/internal/scouting"
)

// command runs fn against the saved game and saves the result.
func command(cfgPath string, fn func(s *session) error) error {
	s, err := open(cfgPath, true)
	if err != nil {
		return err
	}
	defer s.close()

	var cmdErr error
	s.g.Scheduler.Do(func() { cmdErr = fn(s) })
	if cmdErr != nil {
		return cmdErr
	}
	return s.save()
}

func newHireCmd(cfgPath *string) *cobra.Command {
	var (
		sc        model.Scout
		specialty []string
		countries []string
	)
	cmd := &cobra.Command{
		Use:   "hire",
		Short: "Hire a scout",
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, p := range specialty {
				sc.Specialties = append(sc.Specialties, model.Position(p))
			}
			sc.PreferredCountries = countries
			return command(*cfgPath, func(s *session) error {
				hired, err := s.g.Scouting.Hire(sc)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "hired %s (%s)\n", hired.Name, hired.ID)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&sc.Name, "name", "", "scout name")
	cmd.Flags().IntVar(&sc.Level, "level", 1, "scout level")
	cmd.Flags().IntVar(&sc.Abilities.Evaluation, "evaluation", 50, "evaluation ability 0-100")
	cmd.Flags().IntVar(&sc.Abilities.Negotiation, "negotiation", 50, "negotiation ability 0-100")
	cmd.Flags().IntVar(&sc.Abilities.Youth, "youth", 50, "youth ability 0-100")
	cmd.Flags().StringSliceVar(&specialty, "specialty", nil, "positions: GK, DEF, MID, FWD")
	cmd.Flags().StringSliceVar(&countries, "prefers", nil, "preferred country ids")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func newMissionCmd(cfgPath *string) *cobra.Command {
	var (
		scoutID, countryID string
		days               int
		cancel             bool
	)
	cmd := &cobra.Command{
		Use:   "mission",
		Short: "Send a scout on a mission, or recall them with --cancel",
		RunE: func(cmd *cobra.Command, args []string) error {
			return command(*cfgPath, func(s *session) error {
				if cancel {
					return s.g.Scouting.CancelMission(scoutID)
				}
				m, err := s.g.Scouting.StartMission(scoutID, countryID, days)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "mission %s to %s for %d days\n", m.ID, m.CountryID, m.DurationDays)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&scoutID, "scout", "", "scout id")
	cmd.Flags().StringVar(&countryID, "country", "", "country id")
	cmd.Flags().IntVar(&days, "days", 14, "mission duration in days")
	cmd.Flags().BoolVar(&cancel, "cancel", false, "cancel the scout's current mission")
	_ = cmd.MarkFlagRequired("scout")
	return cmd
}

func newOfferCmd(cfgPath *string) *cobra.Command {
	var (
		playerID, teamID, offerID string
		amount                    int64
		action                    string
		cond                      model.TransferCondition
	)
	cmd := &cobra.Command{
		Use:   "offer",
		Short: "Create, counter, accept, reject or condition a transfer offer",
		RunE: func(cmd *cobra.Command, args []string) error {
			return command(*cfgPath, func(s *session) error {
				out := cmd.OutOrStdout()
				tr := s.g.Transfers
				switch action {
				case "create":
					o, err := tr.CreateOffer(playerID, teamID, amount)
					if err != nil {
						return err
					}
					fmt.Fprintf(out, "offer %s created, expires %s\n", o.ID, o.ExpiresAt.Format("2006-01-02"))
				case "counter":
					if _, err := tr.SubmitCounterOffer(offerID, amount, model.PartyAgent); err != nil {
						return err
					}
				case "accept":
					ct, err := tr.AcceptOffer(offerID)
					if err != nil {
						return err
					}
					fmt.Fprintf(out, "transfer %s completed\n", ct.ID)
				case "reject":
					return tr.RejectOffer(offerID)
				case "condition":
					o, err := tr.AddCondition(offerID, cond)
					if err != nil {
						return err
					}
					fmt.Fprintf(out, "offer %s now carries %d condition(s)\n", o.ID, len(o.Conditions))
				case "guidance":
					gd, err := tr.Guidance(offerID)
					if err != nil {
						return err
					}
					fmt.Fprintf(out, "minimum %d recommended %d range %d-%d probability %.1f%% trend %s\n",
						gd.Minimum, gd.Recommended, gd.Low, gd.High, gd.Probability.Percent, gd.Direction)
				default:
					return fmt.Errorf("unknown action %q", action)
				}
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&action, "action", "create", "create, counter, accept, reject, condition or guidance")
	cmd.Flags().StringVar(&playerID, "player", "", "player id (create)")
	cmd.Flags().StringVar(&teamID, "team", "", "buying team id (create)")
	cmd.Flags().StringVar(&offerID, "offer", "", "offer id")
	cmd.Flags().Int64Var(&amount, "amount", 0, "offer amount")
	cmd.Flags().StringVar(&cond.Type, "type", "", "condition type, e.g. goals or appearances (condition)")
	cmd.Flags().IntVar(&cond.Threshold, "threshold", 0, "condition threshold (condition)")
	cmd.Flags().Int64Var(&cond.Bonus, "bonus", 0, "bonus paid when the threshold is met (condition)")
	return cmd
}

func newEventCmd(cfgPath *string) *cobra.Command {
	var resolve, option, ignore string
	cmd := &cobra.Command{
		Use:   "event",
		Short: "List pending scouting events, or resolve or ignore one",
		RunE: func(cmd *cobra.Command, args []string) error {
			if resolve != "" && ignore != "" {
				return fmt.Errorf("--resolve and --ignore are exclusive")
			}
			if resolve != "" && option == "" {
				return fmt.Errorf("--resolve needs --option")
			}
			return command(*cfgPath, func(s *session) error {
				out := cmd.OutOrStdout()
				sc := s.g.Scouting
				switch {
				case resolve != "":
					res, err := sc.ResolveEvent(resolve, option)
					if err != nil {
						return err
					}
					printResolution(out, res)
				case ignore != "":
					return sc.IgnoreEvent(ignore)
				default:
					fmt.Fprint(out, notifier.FormatPendingEvents(sc.PendingEvents()))
				}
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&resolve, "resolve", "", "event id to resolve")
	cmd.Flags().StringVar(&option, "option", "", "option id chosen for --resolve")
	cmd.Flags().StringVar(&ignore, "ignore", "", "event id to ignore")
	return cmd
}

func printResolution(out io.Writer, res scouting.Resolution) {
	if !res.Success || res.Player == nil {
		fmt.Fprintf(out, "%s came to nothing, paid %s\n", res.Option.Label, notifier.Money(res.Option.Cost))
		return
	}
	fmt.Fprintf(out, "found %s (%s) for %s\n", res.Player.Name, res.Player.ID, notifier.Money(res.Option.Cost))
	if res.Report != nil {
		fmt.Fprintf(out, "report %s at %.0f%% accuracy\n", res.Report.ID, res.Report.Accuracy)
	}
}

func newDismissCmd(cfgPath *string) *cobra.Command {
	var scoutID string
	cmd := &cobra.Command{
		Use:   "dismiss",
		Short: "Dismiss an idle scout and drop their pending events",
		RunE: func(cmd *cobra.Command, args []string) error {
			return command(*cfgPath, func(s *session) error {
				return s.g.Scouting.Dismiss(scoutID)
			})
		},
	}
	cmd.Flags().StringVar(&scoutID, "scout", "", "scout id")
	_ = cmd.MarkFlagRequired("scout")
	return cmd
}

func newOfficeCmd(cfgPath *string) *cobra.Command {
	var level int
	cmd := &cobra.Command{
		Use:   "office",
		Short: "Set the scouting office level, which caps the number of scouts",
		RunE: func(cmd *cobra.Command, args []string) error {
			if level < 1 {
				return fmt.Errorf("--level must be at least 1")
			}
			return command(*cfgPath, func(s *session) error {
				s.g.Scouting.SetOfficeLevel(level)
				fmt.Fprintf(cmd.OutOrStdout(), "office level %d\n", level)
				return nil
			})
		},
	}
	cmd.Flags().IntVar(&level, "level", 1, "office level")
	_ = cmd.MarkFlagRequired("level")
	return cmd
}

func newPauseCmd(cfgPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "pause",
		Short: "Freeze the game clock so run and simulate leave it alone",
		RunE: func(cmd *cobra.Command, args []string) error {
			return command(*cfgPath, func(s *session) error {
				s.g.Scheduler.Pause()
				return nil
			})
		},
	}
}

func newResumeCmd(cfgPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "resume",
		Short: "Unfreeze the game clock",
		RunE: func(cmd *cobra.Command, args []string) error {
			return command(*cfgPath, func(s *session) error {
				s.g.Scheduler.Resume()
				return nil
			})
		},
	}
}
