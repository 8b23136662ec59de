package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/zvrva/staybook/config"
	"github.com/zvrva/staybook/internal/domain"
)

type ItineraryRequest struct {
	HotelName string
	City      string
	CheckIn   time.Time
	CheckOut  time.Time
	Guests    int
	RoomType  string
}

type DayPlan struct {
	Day        int      `json:"day"`
	Activities []string `json:"activities"`
}

type Itinerary struct {
	Raw  string    `json:"raw"`
	Days []DayPlan `json:"days"`
}

type Client struct {
	baseURL string
	model   string
	token   string
	client  *http.Client
}

func NewClient(cfg config.AIConfig) *Client {
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		model:   cfg.Model,
		token:   cfg.Token,
		client:  &http.Client{Timeout: timeout},
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens"`
	Temperature float64       `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

func (c *Client) Generate(ctx context.Context, req ItineraryRequest) (*Itinerary, error) {
	days := domain.Nights(req.CheckIn, req.CheckOut)
	if days < 1 {
		days = 1
	}

	body := chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: "You are an expert travel planner who creates detailed day-by-day itineraries with specific times and activities."},
			{Role: "user", Content: buildPrompt(req, days)},
		},
		MaxTokens:   1000,
		Temperature: 0.8,
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.client.Do(httpReq)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, domain.NewUpstreamTimeout("AI request timed out", err)
		}
		return nil, domain.NewUpstream("AI request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, domain.NewUpstream(fmt.Sprintf("AI provider returned status %d", resp.StatusCode), nil)
	}

	var out chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, domain.NewUpstream("failed to decode AI response", err)
	}
	if len(out.Choices) == 0 {
		return nil, domain.NewUpstream("AI provider returned no choices", nil)
	}

	content := out.Choices[0].Message.Content
	return &Itinerary{Raw: content, Days: ParseDays(content)}, nil
}

func buildPrompt(req ItineraryRequest, days int) string {
	dayWord := "days"
	if days == 1 {
		dayWord = "day"
	}
	return fmt.Sprintf(`Create a detailed %d-day travel itinerary for %s.

REQUIREMENTS:
- Generate EXACTLY %d %s (Day 1 to Day %d)
- Include 5-7 activities per day with specific time slots
- Each activity must have a time (e.g., 9:00 AM, 2:00 PM, 6:00 PM)
- Include famous landmarks, attractions, restaurants, and cultural experiences in %s
- Activities should be realistic and properly spaced throughout the day
- Brief descriptions for each activity (1 line maximum)
FORMAT:
Day 1:
- Visit [Landmark] at [Time]
- Explore [Attraction] at [Time]
- Lunch/Dinner at [Restaurant] at [Time]
and more
Booking Details:
Hotel: %s
Location: %s
Duration: %s to %s
Guests: %d
Room Type: %s
Generate the itinerary now.`,
		days, req.City, days, dayWord, days, req.City,
		req.HotelName, req.City,
		req.CheckIn.Format("2006-01-02"), req.CheckOut.Format("2006-01-02"),
		req.Guests, req.RoomType)
}

var dayHeader = regexp.MustCompile(`(?m)^\s*Day\s+(\d+)\s*:`)

// ParseDays splits the model's free text on "Day N:" headers. The format is a
// boundary contract with the provider, not something we control.
func ParseDays(content string) []DayPlan {
	matches := dayHeader.FindAllStringSubmatchIndex(content, -1)
	days := make([]DayPlan, 0, len(matches))
	for i, m := range matches {
		num, err := strconv.Atoi(content[m[2]:m[3]])
		if err != nil {
			continue
		}
		end := len(content)
		if i+1 < len(matches) {
			end = matches[i+1][0]
		}
		section := content[m[1]:end]

		var activities []string
		for _, line := range strings.Split(section, "\n") {
			line = strings.TrimSpace(line)
			if line == "" {
				continue
			}
			activities = append(activities, line)
		}
		days = append(days, DayPlan{Day: num, Activities: activities})
	}
	return days
}
