package cmd

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/safestay/safestay/internal/catalog"
	"github.com/safestay/safestay/internal/logger"
)

const (
	PromptYes = "Yes"
	PromptNo  = "No"
)

var errExit = errors.New("exit requested")

var matchCmd = &cobra.Command{
	Use:   "match",
	Short: "Rank roommate candidates for a seeker profile from the terminal",
	Run: func(cmd *cobra.Command, _ []string) {
		match(cmd)
	},
}

func init() {
	rootCmd.AddCommand(matchCmd)

	matchCmd.Flags().BoolP("auto-aprove", "y", false, "do not ask for confirmation before calling the model")
}

// match is the interactive matching command. It exists so the ranking flow
// can be exercised without running the HTTP server.
func match(cmd *cobra.Command) {
	ctx := context.Background()

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	if config.AI == nil || !config.AI.Enabled {
		logger.Fatal("ai must be enabled in the config for the match command")
	}

	profiles, err := catalog.LoadProfiles()
	if err != nil {
		logger.Fatal("loading roommates catalog", zap.Error(err))
	}

	seeker, err := selectSeeker(profiles)
	if err != nil {
		if errors.Is(err, errExit) {
			return
		}
		logger.Fatal("selecting a seeker profile", zap.Error(err))
	}

	candidates := make([]*catalog.Profile, 0, profiles.Len())
	for _, profile := range profiles.Items {
		if seeker.ID == 0 || profile.ID != seeker.ID {
			candidates = append(candidates, profile)
		}
	}

	logger.Info("ranking candidates",
		zap.String("seeker", seeker.Name),
		zap.Int("candidates", len(candidates)),
	)

	if cmd.Flag("auto-aprove").Value.String() == "false" {
		confirm := promptui.Select{
			Label: "Proceed with ranking?",
			Items: []string{PromptYes, PromptNo},
		}
		_, action, err := confirm.Run()
		if err != nil {
			logger.Fatal("exiting", zap.Error(err))
		}
		if action == PromptNo {
			logger.Info("exiting", zap.String("reason", "got no from prompt"))
			return
		}
	}

	ranker, _, err := newAIServices(ctx, config.AI, logger)
	if err != nil {
		logger.Fatal("building ai services", zap.Error(err))
	}

	recommendations, err := ranker.Rank(ctx, seeker, candidates)
	if err != nil {
		logger.Fatal("ranking failed", zap.Error(err))
	}

	for i, rec := range recommendations {
		fmt.Printf("%d. %s (score %.0f)\n   %s\n",
			i+1, rec.Profile.Name, rec.MatchScore, rec.CompatibilityReason,
		)
	}
}

const (
	promptCustomProfile = "Custom profile"
	promptExit          = "exit"
)

func selectSeeker(profiles *catalog.Profiles) (*catalog.Profile, error) {
	items := make([]string, 0, profiles.Len()+2)
	for _, profile := range profiles.Items {
		items = append(items, fmt.Sprintf("%d %s / %s / %s", profile.ID, profile.Name, profile.Year, profile.Branch))
	}
	items = append(items, promptCustomProfile, promptExit)

	prompt := promptui.Select{
		Label: "Choose a seeker profile and press ENTER",
		Items: items,
	}

	_, selected, err := prompt.Run()
	if err != nil {
		return nil, err
	}

	switch selected {
	case promptExit:
		return nil, errExit
	case promptCustomProfile:
		return promptCustomSeeker()
	}

	id, err := strconv.Atoi(strings.Split(selected, " ")[0])
	if err != nil {
		return nil, fmt.Errorf("parse selected profile id: %w", err)
	}

	seeker := profiles.FindByID(id)
	if seeker == nil {
		return nil, fmt.Errorf("there is no such profile id %d", id)
	}

	return seeker, nil
}

// promptCustomSeeker builds a seeker profile from terminal input. The ranker
// validates the result, so the prompts only require non-empty answers.
func promptCustomSeeker() (*catalog.Profile, error) {
	required := func(input string) error {
		if strings.TrimSpace(input) == "" {
			return errors.New("value is required")
		}
		return nil
	}

	fields := []struct {
		label string
		dest  *string
	}{
		{label: "Name", dest: new(string)},
		{label: "Year of study (for example 2nd Year)", dest: new(string)},
		{label: "Branch", dest: new(string)},
		{label: "Hobbies (comma separated)", dest: new(string)},
		{label: "Personality", dest: new(string)},
		{label: "Social habits", dest: new(string)},
	}

	for i := range fields {
		answer, err := (&promptui.Prompt{Label: fields[i].label, Validate: required}).Run()
		if err != nil {
			return nil, err
		}
		*fields[i].dest = strings.TrimSpace(answer)
	}

	agePrompt := promptui.Prompt{
		Label: "Age",
		Validate: func(input string) error {
			age, err := strconv.Atoi(strings.TrimSpace(input))
			if err != nil || age <= 0 {
				return errors.New("age must be a positive number")
			}
			return nil
		},
	}
	ageAnswer, err := agePrompt.Run()
	if err != nil {
		return nil, err
	}
	age, _ := strconv.Atoi(strings.TrimSpace(ageAnswer))

	hobbies := make([]string, 0)
	for _, hobby := range strings.Split(*fields[3].dest, ",") {
		if hobby = strings.TrimSpace(hobby); hobby != "" {
			hobbies = append(hobbies, hobby)
		}
	}

	return &catalog.Profile{
		Name:         *fields[0].dest,
		Age:          age,
		Year:         *fields[1].dest,
		Branch:       *fields[2].dest,
		Hobbies:      hobbies,
		Personality:  *fields[4].dest,
		SocialHabits: *fields[5].dest,
	}, nil
}
