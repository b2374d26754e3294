package internal

import (
	"context"
	"fmt"
	"html/template"
	"strings"
	"sync"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/albertb/progressboard/internal/week"
)

// CoachOptions holds options for creating the LLM-generated coach Card.
type CoachOptions struct {
	OpenAIAPIKey string
	Prompt       string
	Priority     int
}

func (c Config) GetCoachOptions() CoachOptions {
	return CoachOptions(c.Coach)
}

// NewCoachCards creates a Card commenting on the selected week's scores.
// Answers are kept per week and day, so reloading the page doesn't ask again.
func NewCoachCards(options CoachOptions) CardSource {
	if options.OpenAIAPIKey == "" || options.Prompt == "" {
		return func(WeekView) []Card { return nil }
	}

	client := openai.NewClient(
		option.WithAPIKey(options.OpenAIAPIKey),
	)

	var mu sync.Mutex
	answers := map[string]string{}

	return makeCoachCards(options, func(view WeekView) (string, error) {
		cacheKey := fmt.Sprintf("%s/%d", view.Key, view.Cutoff)

		mu.Lock()
		answer, ok := answers[cacheKey]
		mu.Unlock()
		if ok {
			return answer, nil
		}

		answer, err := fetchCompletion(client, view.Pass.At, options.Prompt, describeWeek(view))
		if err != nil {
			return "", err
		}

		mu.Lock()
		answers[cacheKey] = answer
		mu.Unlock()
		return answer, nil
	})
}

// NewFakeCoachCards creates a coach Card with canned content for testing purposes.
func NewFakeCoachCards(options CoachOptions) CardSource {
	return makeCoachCards(options, func(view WeekView) (string, error) {
		if view.Cutoff < week.LastDay {
			return fmt.Sprintf("%d days left in %s. Keep the streak going!",
				week.LastDay-view.Cutoff, week.Label(view.Number)), nil
		}
		return fmt.Sprintf("%s is in the books. Look at what worked and do more of it.", week.Label(view.Number)), nil
	})
}

func makeCoachCards(options CoachOptions, getAnswer func(WeekView) (string, error)) CardSource {
	return func(view WeekView) []Card {
		if view.Daily == nil {
			return nil
		}
		return []Card{
			{
				Title:    "Coach",
				Type:     CardTypeText,
				Group:    CardGroupSide,
				Priority: options.Priority,
				loader: func(c *Card) error {
					c.Body = ""
					answer, err := getAnswer(view)
					if err != nil {
						return err
					}
					c.Body = template.HTML(template.HTMLEscapeString(answer))
					return nil
				},
			},
		}
	}
}

// describeWeek summarizes the visible part of the week for the model.
func describeWeek(view WeekView) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s, days shown: %d of 7.\n", week.Label(view.Number), view.Cutoff+1)

	line := func(name string, scores []*float64) {
		if len(scores) == 0 {
			return
		}
		fmt.Fprintf(&b, "%s task score by day:", name)
		for i, v := range scores {
			if i > view.Cutoff {
				break
			}
			if v == nil {
				b.WriteString(" -")
				continue
			}
			fmt.Fprintf(&b, " %.0f%%", *v)
		}
		b.WriteString("\n")
	}
	line("Gym", view.Daily.GymScores)
	line("Business", view.Daily.BusinessScores)

	if m := view.Daily.GymMeasureScore; m != nil {
		fmt.Fprintf(&b, "Gym measure: %.0f%%\n", *m)
	}
	if m := view.Daily.BusinessMeasureScore; m != nil {
		fmt.Fprintf(&b, "Business measure: %.0f%%\n", *m)
	}
	return b.String()
}

func fetchCompletion(client openai.Client, now time.Time, prompt, scores string) (string, error) {
	var completion string

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	response, err := client.Chat.Completions.New(
		ctx,
		openai.ChatCompletionNewParams{
			Messages: []openai.ChatCompletionMessageParamUnion{
				openai.SystemMessage(fmt.Sprintf("The current date is %s", now.Format("January 2, 2006"))),
				openai.UserMessage(prompt + "\n\n" + scores),
			},
			Model: openai.ChatModelGPT4o,
		},
	)
	if err != nil {
		return completion, err
	}
	if len(response.Choices) == 0 {
		return completion, fmt.Errorf("no completion returned")
	}
	return response.Choices[0].Message.Content, nil
}
