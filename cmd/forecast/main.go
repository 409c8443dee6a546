// forecast submits the dashboard's forms from the command line.
//
// Usage:
//
//	forecast rainfall --location Delhi --date-range "2024-01-01 to 2024-01-31"
//	forecast crop-yield --latitude 30.9 --longitude 75.85 --crop Wheat
//	forecast satellite --location Nashik --date 2024-03-01
//	forecast historical --location Delhi
//	forecast dashboard
package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/urfave/cli/v2"

	"agriforecast/forms"
	"agriforecast/predict"
)

var version = "dev"

func main() {
	if err := newApp(os.Stdout, os.Stderr).Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// env is what every command needs, built once in Before.
type env struct {
	client *predict.Client
	routes forms.Routes
	log    zerolog.Logger
}

func newApp(stdout, stderr io.Writer) *cli.App {
	e := &env{}
	return &cli.App{
		Name:      "forecast",
		Usage:     "Rainfall, crop-yield and satellite predictions from the command line",
		Version:   version,
		Writer:    stdout,
		ErrWriter: stderr,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "base-url",
				Value:   predict.DefaultBaseURL,
				Usage:   "Prediction service base URL",
				EnvVars: []string{"PREDICTOR_URL"},
			},
			&cli.StringFlag{
				Name:    "routes",
				Value:   forms.APIRoutes.Name,
				Usage:   "Route table (api, legacy)",
				EnvVars: []string{"PREDICTOR_ROUTES"},
			},
			&cli.StringFlag{
				Name:    "log-level",
				Value:   "warn",
				Usage:   "Log level (debug, info, warn, error)",
				EnvVars: []string{"LOG_LEVEL"},
			},
			&cli.DurationFlag{
				Name:  "timeout",
				Usage: "Give up on a request after this long (0 waits indefinitely)",
			},
		},
		Before: func(c *cli.Context) error {
			lvl, err := zerolog.ParseLevel(c.String("log-level"))
			if err != nil {
				return fmt.Errorf("log level: %w", err)
			}
			e.log = zerolog.New(zerolog.ConsoleWriter{Out: c.App.ErrWriter}).Level(lvl).With().Timestamp().Logger()

			if e.routes, err = forms.RoutesByName(c.String("routes")); err != nil {
				return err
			}
			e.client = predict.NewClient(c.String("base-url"))
			e.client.HTTPClient.Timeout = c.Duration("timeout")
			e.client.Logger = e.log
			return nil
		},
		Commands: []*cli.Command{
			rainfallCommand(e),
			cropYieldCommand(e),
			satelliteCommand(e),
			historicalCommand(e),
			dashboardCommand(e),
		},
	}
}

func locationFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "location", Aliases: []string{"l"}, Usage: "Place name"},
		&cli.StringFlag{Name: "latitude", Usage: "Latitude (with --longitude, instead of --location)"},
		&cli.StringFlag{Name: "longitude", Usage: "Longitude (with --latitude, instead of --location)"},
	}
}

func rangeFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "start-date", Usage: "Range start, YYYY-MM-DD"},
		&cli.StringFlag{Name: "end-date", Usage: "Range end, YYYY-MM-DD"},
	}
}

func rainfallCommand(e *env) *cli.Command {
	return &cli.Command{
		Name:  "rainfall",
		Usage: "Predict rainfall for a location",
		Flags: append(append(locationFlags(),
			&cli.StringFlag{Name: "date-range", Aliases: []string{"r"}, Usage: `Free-text range, e.g. "2024-01-01 to 2024-01-31"`},
		), rangeFlags()...),
		Action: func(c *cli.Context) error {
			in := forms.RainfallInput{Location: location(c), DateRange: dateRange(c, 7)}
			f := forms.NewRainfall(e.client, e.routes)
			return finish(c, submitWithLabel(c, f, in, "Predicting..."), forms.RenderRainfall)
		},
	}
}

func cropYieldCommand(e *env) *cli.Command {
	return &cli.Command{
		Name:  "crop-yield",
		Usage: "Predict crop yield for a location",
		Flags: append(append(locationFlags(),
			&cli.StringFlag{Name: "crop", Aliases: []string{"c"}, Value: string(forms.Rice), Usage: "Crop type"},
			&cli.StringFlag{Name: "date-range", Aliases: []string{"r"}, Usage: "Free-text range"},
		), rangeFlags()...),
		Action: func(c *cli.Context) error {
			crop := forms.CropType(c.String("crop"))
			if !crop.Known() {
				e.log.Warn().Str("crop", string(crop)).Msg("crop not offered by the form; sending anyway")
			}
			in := forms.CropYieldInput{Location: location(c), CropType: crop, DateRange: dateRange(c, 30)}
			f := forms.NewCropYield(e.client, e.routes)
			return finish(c, submitWithLabel(c, f, in, "Predicting..."), forms.RenderCropYield)
		},
	}
}

func satelliteCommand(e *env) *cli.Command {
	return &cli.Command{
		Name:  "satellite",
		Usage: "Analyze satellite imagery for a location and date",
		Flags: append(locationFlags(),
			&cli.StringFlag{Name: "date", Aliases: []string{"d"}, Usage: "Image date, YYYY-MM-DD (default today)"},
		),
		Action: func(c *cli.Context) error {
			date := c.String("date")
			if date == "" {
				date = time.Now().UTC().Format("2006-01-02")
			}
			in := forms.SatelliteInput{Location: location(c), Date: date}
			f := forms.NewSatellite(e.client, e.routes)
			return finish(c, submitWithLabel(c, f, in, "Analyzing..."), forms.RenderSatellite)
		},
	}
}

func historicalCommand(e *env) *cli.Command {
	return &cli.Command{
		Name:  "historical",
		Usage: "Fetch historical rainfall and crop-yield series (default: the past year)",
		Flags: append(locationFlags(), rangeFlags()...),
		Action: func(c *cli.Context) error {
			q := forms.HistoricalQuery{
				Location:  location(c),
				StartDate: c.String("start-date"),
				EndDate:   c.String("end-date"),
			}
			if q.StartDate == "" && q.EndDate == "" {
				past := forms.PastYear(time.Now())
				q.StartDate, q.EndDate = past.Start, past.End
			}
			st := submitWithLabel(c, forms.NewHistorical(e.client, e.routes), q, "Fetching...")
			if st.Phase != predict.Success {
				return errors.New(st.Err)
			}
			return printView(c, forms.RenderHistory(st.Value))
		},
	}
}

func dashboardCommand(e *env) *cli.Command {
	return &cli.Command{
		Name:  "dashboard",
		Usage: "Show the dashboard summary",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "json", Usage: "Print the series as JSON"},
		},
		Action: func(c *cli.Context) error {
			d := forms.FetchDashboard(c.Context, e.client, e.routes, e.log)
			if c.Bool("json") {
				enc := json.NewEncoder(c.App.Writer)
				enc.SetIndent("", "  ")
				return enc.Encode(d)
			}
			return printView(c, forms.RenderDashboard(d))
		},
	}
}

// submitWithLabel prints label when the form enters Loading.
func submitWithLabel[In, T any](c *cli.Context, f *predict.Form[In, T], in In, label string) predict.State[T] {
	f.Observe(func(st predict.State[T]) {
		if st.Loading() {
			fmt.Fprintln(c.App.ErrWriter, label)
		}
	})
	return f.Submit(c.Context, in)
}

func finish(c *cli.Context, st predict.State[json.RawMessage], render func(json.RawMessage) forms.View) error {
	if st.Phase != predict.Success {
		return errors.New(st.Err)
	}
	return printView(c, render(st.Value))
}

func printView(c *cli.Context, v forms.View) error {
	if _, err := fmt.Fprintln(c.App.Writer, v.String()); err != nil {
		return err
	}
	for _, p := range v.Trend {
		fmt.Fprintf(c.App.Writer, "  %-9s %v\n", p.Label, p.Value)
	}
	return nil
}

func location(c *cli.Context) forms.Location {
	if lat, lon := c.String("latitude"), c.String("longitude"); lat != "" || lon != "" {
		return forms.Coordinates(lat, lon)
	}
	return forms.Place(c.String("location"))
}

// dateRange prefers the free-text range, then start/end, then today+days.
func dateRange(c *cli.Context, days int) forms.DateRange {
	if s := c.String("date-range"); s != "" {
		return forms.DateRange{Text: s}
	}
	if s, e := c.String("start-date"), c.String("end-date"); s != "" || e != "" {
		return forms.DateRange{Start: s, End: e}
	}
	return forms.NextDays(time.Now(), days)
}
