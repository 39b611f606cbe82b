package runner

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/mattn/go-runewidth"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/foodmapper/foodmapper/filter"
	"github.com/foodmapper/foodmapper/geo"
	"github.com/foodmapper/foodmapper/models"
)

const (
	RunModeList = iota + 1
	RunModeChoose
	RunModeShared
	RunModePublic
	RunModeLookup
)

var (
	ErrInvalidRunMode = errors.New("invalid run mode")
)

type Runner interface {
	Run(context.Context) error
	Close(context.Context) error
}

type Config struct {
	ServerURL string
	Token     string
	Debug     bool
	RunMode   int

	// list view
	Search    string
	Sort      string
	CuisineID int64
	MinRating int
	PriceTier string
	Status    string
	GroupID   int64
	Location  string

	// chooser
	Choose          bool
	ChooseCuisines  []int64
	ChooseStatuses  []models.Status
	ChoosePrice     string
	ChooseMinRating int

	// read-only browsing
	ShareToken    string
	PublicGroupID int64

	// add-form address lookup
	LookupQuery string
}

func ParseConfig() *Config {
	cfg := Config{}

	var (
		chooseCuisines string
		chooseStatuses string
	)

	flag.StringVar(&cfg.ServerURL, "server", "http://localhost:8000", "base URL of the tracking server")
	flag.StringVar(&cfg.Token, "token", "", "bearer token for the tracking server [default: $FOODMAPPER_TOKEN]")
	flag.BoolVar(&cfg.Debug, "debug", false, "enable debug logging")
	flag.StringVar(&cfg.Search, "search", "", "free-text search over name and address")
	flag.StringVar(&cfg.Sort, "sort", "", "sort order: name or rating [default: server default]")
	flag.Int64Var(&cfg.CuisineID, "cuisine", 0, "show only restaurants with this cuisine id")
	flag.IntVar(&cfg.MinRating, "min-rating", 0, "show only restaurants rated at least this (1-5)")
	flag.StringVar(&cfg.PriceTier, "price", "", "show only restaurants with this price tier ($ to $$$$)")
	flag.StringVar(&cfg.Status, "status", "", "show only restaurants with this status (e.g. 'Visited')")
	flag.Int64Var(&cfg.GroupID, "group", 0, "show only restaurants in this group id")
	flag.StringVar(&cfg.Location, "location", "", "your position as 'lat,lng' for distance annotations")
	flag.BoolVar(&cfg.Choose, "choose", false, "draw random recommendations instead of listing")
	flag.StringVar(&chooseCuisines, "choose-cuisines", "", "comma separated cuisine ids for the chooser (required with -choose)")
	flag.StringVar(&chooseStatuses, "choose-statuses", "", "comma separated statuses for the chooser")
	flag.StringVar(&cfg.ChoosePrice, "choose-price", "", "price tier constraint for the chooser")
	flag.IntVar(&cfg.ChooseMinRating, "choose-min-rating", 0, "minimum rating constraint for the chooser")
	flag.StringVar(&cfg.ShareToken, "share-token", "", "browse a shared list read-only through its token")
	flag.Int64Var(&cfg.PublicGroupID, "public-group", 0, "browse a published group anonymously by id")
	flag.StringVar(&cfg.LookupQuery, "lookup", "", "resolve free text to address candidates for a new restaurant")

	flag.Parse()

	if cfg.Token == "" {
		cfg.Token = os.Getenv("FOODMAPPER_TOKEN")
	}

	if v := os.Getenv("FOODMAPPER_SERVER"); v != "" && cfg.ServerURL == "http://localhost:8000" {
		cfg.ServerURL = v
	}

	if cfg.MinRating < 0 || cfg.MinRating > 5 {
		panic("min-rating must be between 0 and 5")
	}

	if cfg.PriceTier != "" && !models.PriceTier(cfg.PriceTier).Valid() {
		panic("price must be one of $, $$, $$$, $$$$")
	}

	if cfg.Status != "" {
		status, ok := models.ParseStatus(cfg.Status)
		if !ok {
			panic(fmt.Sprintf("invalid status %q", cfg.Status))
		}

		// normalize so the facet carries the wire value
		cfg.Status = string(status)
	}

	if cfg.Location != "" {
		if _, err := ParseLocation(cfg.Location); err != nil {
			panic(err.Error())
		}
	}

	if chooseCuisines != "" {
		cfg.ChooseCuisines = parseIDList(chooseCuisines)
	}

	statuses, err := parseStatusList(chooseStatuses)
	if err != nil {
		panic(err.Error())
	}

	cfg.ChooseStatuses = statuses

	if cfg.Choose && len(cfg.ChooseCuisines) == 0 {
		panic("choose-cuisines must be provided when using -choose")
	}

	if cfg.ShareToken != "" && cfg.PublicGroupID != 0 {
		panic("share-token and public-group are mutually exclusive")
	}

	switch {
	case cfg.ShareToken != "":
		cfg.RunMode = RunModeShared
	case cfg.PublicGroupID != 0:
		cfg.RunMode = RunModePublic
	case cfg.Choose:
		cfg.RunMode = RunModeChoose
	case cfg.LookupQuery != "":
		cfg.RunMode = RunModeLookup
	default:
		cfg.RunMode = RunModeList
	}

	return &cfg
}

// Facets builds the local filter stage from the parsed flags.
func (c *Config) Facets() filter.Facets {
	return filter.Facets{
		CuisineID: c.CuisineID,
		MinRating: c.MinRating,
		PriceTier: models.PriceTier(c.PriceTier),
		Status:    models.Status(c.Status),
		GroupID:   c.GroupID,
	}
}

// Logger builds the process logger. Debug switches to the human-readable
// development encoder.
func Logger(debug bool) *zap.Logger {
	if debug {
		l, err := zap.NewDevelopment()
		if err != nil {
			panic(err)
		}

		return l
	}

	l, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}

	return l
}

// ParseLocation parses a 'lat,lng' pair.
func ParseLocation(s string) (geo.Point, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return geo.Point{}, fmt.Errorf("invalid location %q: want 'lat,lng'", s)
	}

	lat, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return geo.Point{}, fmt.Errorf("invalid latitude %q", parts[0])
	}

	lng, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return geo.Point{}, fmt.Errorf("invalid longitude %q", parts[1])
	}

	if lat < -90 || lat > 90 || lng < -180 || lng > 180 {
		return geo.Point{}, fmt.Errorf("location %q out of range", s)
	}

	return geo.Point{Lat: lat, Lng: lng}, nil
}

func parseStatusList(s string) ([]models.Status, error) {
	var out []models.Status

	for _, part := range splitList(s) {
		status, ok := models.ParseStatus(part)
		if !ok {
			return nil, fmt.Errorf("invalid status %q", part)
		}

		out = append(out, status)
	}

	return out, nil
}

func parseIDList(s string) []int64 {
	var ids []int64

	for _, part := range splitList(s) {
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil || id <= 0 {
			panic(fmt.Sprintf("invalid id %q", part))
		}

		ids = append(ids, id)
	}

	return ids
}

func splitList(s string) []string {
	var out []string

	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}

	return out
}

func wrapText(text string, width int) []string {
	var lines []string

	currentLine := ""
	currentWidth := 0

	for _, r := range text {
		runeWidth := runewidth.RuneWidth(r)
		if currentWidth+runeWidth > width {
			lines = append(lines, currentLine)
			currentLine = string(r)
			currentWidth = runeWidth
		} else {
			currentLine += string(r)
			currentWidth += runeWidth
		}
	}

	if currentLine != "" {
		lines = append(lines, currentLine)
	}

	return lines
}

func banner(messages []string, width int) string {
	if width <= 0 {
		var err error

		width, _, err = term.GetSize(0)
		if err != nil {
			width = 80
		}
	}

	if width < 20 {
		width = 20
	}

	contentWidth := width - 4

	var wrappedLines []string
	for _, message := range messages {
		wrappedLines = append(wrappedLines, wrapText(message, contentWidth)...)
	}

	var builder strings.Builder

	builder.WriteString("╔" + strings.Repeat("═", width-2) + "╗\n")

	for _, line := range wrappedLines {
		lineWidth := runewidth.StringWidth(line)
		paddingRight := contentWidth - lineWidth

		if paddingRight < 0 {
			paddingRight = 0
		}

		builder.WriteString(fmt.Sprintf("║ %s%s ║\n", line, strings.Repeat(" ", paddingRight)))
	}

	builder.WriteString("╚" + strings.Repeat("═", width-2) + "╝\n")

	return builder.String()
}

func Banner() {
	message1 := "🍽️ FoodMapper"
	message2 := "Track the restaurants you want to try, rate the ones you have, and share your lists."

	fmt.Fprintln(os.Stderr, banner([]string{message1, message2}, 0))
}
