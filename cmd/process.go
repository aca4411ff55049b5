package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/talentsift/talentsift/internal/audit"
	"github.com/talentsift/talentsift/internal/extract"
	"github.com/talentsift/talentsift/internal/screening"
)

const (
	PromptYes = "Yes"
	PromptNo  = "No"

	minProcessTextLength = 20
)

var processCmd = &cobra.Command{
	Use:   "process --jd <jd-file> <resume-file> [resume-file...]",
	Short: "Screen local resume files against a job description and print the results",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		process(cmd, args)
	},
}

func init() {
	rootCmd.AddCommand(processCmd)

	processCmd.Flags().String("jd", "", "path to the job description file (required)")
	processCmd.Flags().BoolP("yes", "y", false, "do not ask for confirmation before issuing inference calls")

	if err := processCmd.MarkFlagRequired("jd"); err != nil {
		log.Fatalf("marking jd flag required: %v", err)
	}
}

func process(cmd *cobra.Command, args []string) {
	ctx := context.Background()

	zl, err := newLogger()
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		zl.Fatal("getting a config", zap.Error(err))
	}

	jdPath, _ := cmd.Flags().GetString("jd")
	jdData, err := os.ReadFile(jdPath)
	if err != nil {
		zl.Fatal("reading job description", zap.Error(err))
	}

	jdText := extract.Text(jdPath, jdData)
	if len(strings.TrimSpace(jdText)) < minProcessTextLength {
		zl.Fatal("could not extract text from job description", zap.String("file", jdPath))
	}

	position := extract.Position(jdText)
	if position == "" {
		position = "default"
	}

	type input struct {
		name string
		text string
	}

	var inputs []input
	for _, path := range args {
		data, err := os.ReadFile(path)
		if err != nil {
			zl.Warn("resume skipped, unreadable file", zap.String("file", path), zap.Error(err))
			continue
		}

		text := extract.Text(path, data)
		if len(strings.TrimSpace(text)) < minProcessTextLength {
			zl.Warn("resume skipped, insufficient text", zap.String("file", path))
			continue
		}

		inputs = append(inputs, input{name: path, text: text})
	}

	if len(inputs) == 0 {
		zl.Fatal("no valid resumes to process")
	}

	if yes, _ := cmd.Flags().GetBool("yes"); !yes {
		prompt := promptui.Select{
			Label: fmt.Sprintf("Score %d resumes against %q? This issues one inference call per resume", len(inputs), position),
			Items: []string{PromptYes, PromptNo},
		}

		_, action, err := prompt.Run()
		if err != nil {
			zl.Fatal("exiting", zap.Error(err))
		}

		if action != PromptYes {
			zl.Info("exiting", zap.String("reason", "got no from prompt"))
			return
		}
	}

	auditLog := audit.NewLog(config.AuditFile)
	engine := newScoringEngine(ctx, config, auditLog, zl)
	screener := screening.NewScreener(engine, zl)

	records := make([]*screening.CandidateRecord, 0, len(inputs))
	for _, in := range inputs {
		records = append(records, screener.Screen(ctx, in.name, in.text, jdText, position))
	}

	pretty, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		zl.Fatal("encoding results", zap.Error(err))
	}

	fmt.Println(string(pretty))
}
