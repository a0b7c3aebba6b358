// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

func configFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "Path to configuration file",
		Value:   "config.toml",
	}
}

func jsonFlag() cli.Flag {
	return &cli.BoolFlag{Name: "json", Usage: "Output raw JSON"}
}

func formatFlag(value string) cli.Flag {
	return &cli.StringFlag{
		Name:    "format",
		Aliases: []string{"f"},
		Usage:   "Output format: text, json, csv, markdown",
		Value:   value,
	}
}

// filterFlags select a subset of the catalog.
func filterFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "category", Usage: "Only videos in this category"},
		&cli.StringFlag{Name: "difficulty", Usage: "Only videos at this level (beginner, intermediate, advanced)"},
		&cli.StringFlag{Name: "search", Aliases: []string{"s"}, Usage: "Case-insensitive match on title, description or instructor"},
		&cli.StringFlag{Name: "query", Usage: "URL query string, e.g. 'category=yoga&difficulty=beginner'"},
	}
}

func workoutFields() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "name", Usage: "Workout name"},
		&cli.StringFlag{Name: "description", Usage: "Workout description"},
		&cli.StringFlag{Name: "difficulty", Usage: "beginner, intermediate or advanced"},
		&cli.IntFlag{Name: "duration", Usage: "Duration in minutes"},
	}
}

// setupCommand handles setup operations for the local database.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Setup and configuration commands",
		Commands: []*cli.Command{
			{
				Name:   "database",
				Usage:  "Create config.toml if missing, initialize the database and run migrations",
				Flags:  []cli.Flag{configFlag()},
				Action: r.SetupDatabase,
			},
		},
	}
}

// authCommand handles authentication operations
func authCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "auth",
		Usage: "Manage the local session",
		Commands: []*cli.Command{
			{
				Name:  "login",
				Usage: "Log in and store the session locally",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "email", Aliases: []string{"e"}, Usage: "Account email", Required: true},
					&cli.StringFlag{Name: "password", Aliases: []string{"p"}, Usage: "Account password (prompted when omitted)"},
				},
				Action: r.AuthLogin,
			},
			{
				Name:  "signup",
				Usage: "Create an account",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "email", Aliases: []string{"e"}, Usage: "Account email", Required: true},
					&cli.StringFlag{Name: "username", Aliases: []string{"u"}, Usage: "Public username", Required: true},
					&cli.StringFlag{Name: "full-name", Usage: "Full name"},
					&cli.StringFlag{Name: "password", Aliases: []string{"p"}, Usage: "Account password (prompted when omitted)"},
				},
				Action: r.AuthSignup,
			},
			{
				Name:   "logout",
				Usage:  "Forget the stored session",
				Action: r.AuthLogout,
			},
			{
				Name:   "status",
				Usage:  "Show the stored session",
				Flags:  []cli.Flag{jsonFlag()},
				Action: r.AuthStatus,
			},
		},
	}
}

// videosCommand handles catalog browsing and favorites
func videosCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "videos",
		Aliases: []string{"v"},
		Usage:   "Browse the video library",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List videos, optionally filtered",
				Flags: append(filterFlags(),
					formatFlag("text"),
					&cli.IntFlag{Name: "limit", Usage: "Ask the backend for at most this many videos"},
					&cli.BoolFlag{Name: "offline", Usage: "Read the cached catalog instead of the backend"},
				),
				Action: r.VideosList,
			},
			{
				Name:   "featured",
				Usage:  "Show the featured videos of the home page",
				Flags:  []cli.Flag{formatFlag("text"), &cli.IntFlag{Name: "limit", Value: featuredLimit, Usage: "Number of videos"}},
				Action: r.VideosFeatured,
			},
			{
				Name:      "show",
				Usage:     "Show one video and whether it is a favorite",
				Arguments: []cli.Argument{&cli.StringArg{Name: "id"}},
				Flags:     []cli.Flag{jsonFlag()},
				Action:    r.VideosShow,
			},
			{
				Name:      "open",
				Usage:     "Open a video in the browser",
				Arguments: []cli.Argument{&cli.StringArg{Name: "id"}},
				Action:    r.VideosOpen,
			},
			{
				Name:      "favorite",
				Aliases:   []string{"fav"},
				Usage:     "Toggle whether a video is a favorite",
				Arguments: []cli.Argument{&cli.StringArg{Name: "id"}},
				Flags:     []cli.Flag{&cli.BoolFlag{Name: "check", Usage: "Only report the current status"}},
				Action:    r.VideosFavorite,
			},
			{
				Name:   "favorites",
				Usage:  "List favorite videos",
				Flags:  []cli.Flag{formatFlag("text")},
				Action: r.VideosFavorites,
			},
			{
				Name:  "export",
				Usage: "Export the (filtered) catalog to a file",
				Flags: append(filterFlags(),
					formatFlag("markdown"),
					&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Usage: "Output file, or directory for markdown"},
					&cli.BoolFlag{Name: "thumbnails", Usage: "Download thumbnails next to the markdown export"},
				),
				Action: r.VideosExport,
			},
		},
	}
}

// workoutsCommand handles the workout planner
func workoutsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "workouts",
		Aliases: []string{"w"},
		Usage:   "Plan workouts",
		Commands: []*cli.Command{
			{
				Name:   "list",
				Usage:  "List your workouts",
				Flags:  []cli.Flag{jsonFlag()},
				Action: r.WorkoutsList,
			},
			{
				Name:      "show",
				Usage:     "Show a workout with its exercises",
				Arguments: []cli.Argument{&cli.StringArg{Name: "id"}},
				Flags:     []cli.Flag{formatFlag("text")},
				Action:    r.WorkoutsShow,
			},
			{
				Name:   "create",
				Usage:  "Create a workout",
				Flags:  workoutFields(),
				Action: r.WorkoutsCreate,
			},
			{
				Name:      "update",
				Usage:     "Update a workout's details",
				Arguments: []cli.Argument{&cli.StringArg{Name: "id"}},
				Flags:     workoutFields(),
				Action:    r.WorkoutsUpdate,
			},
			{
				Name:      "delete",
				Usage:     "Delete a workout",
				Arguments: []cli.Argument{&cli.StringArg{Name: "id"}},
				Action:    r.WorkoutsDelete,
			},
			{
				Name:      "add-exercise",
				Usage:     "Add an exercise to a workout",
				Arguments: []cli.Argument{&cli.StringArg{Name: "workout-id"}},
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "exercise", Aliases: []string{"e"}, Usage: "Exercise ID", Required: true},
					&cli.IntFlag{Name: "sets", Usage: "Sets (default 3)"},
					&cli.IntFlag{Name: "reps", Usage: "Reps (default 10)"},
					&cli.IntFlag{Name: "rest", Usage: "Rest in seconds (default 60)"},
				},
				Action: r.WorkoutsAddExercise,
			},
			{
				Name:  "remove-exercise",
				Usage: "Remove an exercise from a workout",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "workout-id"},
					&cli.StringArg{Name: "workout-exercise-id"},
				},
				Action: r.WorkoutsRemoveExercise,
			},
			{
				Name:      "export",
				Usage:     "Export workouts (all when no ids are given)",
				ArgsUsage: "[workout-id...]",
				Flags: []cli.Flag{
					formatFlag("json"),
					&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Usage: "Output directory"},
					&cli.IntFlag{Name: "workers", Value: 5, Usage: "Concurrent workers (max 10)"},
					&cli.FloatFlag{Name: "rate", Value: 5, Usage: "Requests per second"},
				},
				Action: r.WorkoutsExport,
			},
		},
	}
}

// exercisesCommand lists the exercise library
func exercisesCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "exercises",
		Usage: "Browse the exercise library",
		Commands: []*cli.Command{
			{
				Name:   "list",
				Usage:  "List exercises",
				Flags:  []cli.Flag{jsonFlag()},
				Action: r.ExercisesList,
			},
		},
	}
}

// profileCommand handles user profiles
func profileCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "profile",
		Usage: "Show or edit profiles",
		Commands: []*cli.Command{
			{
				Name:      "show",
				Usage:     "Show a profile (yours by default)",
				Arguments: []cli.Argument{&cli.StringArg{Name: "user-id"}},
				Flags:     []cli.Flag{jsonFlag()},
				Action:    r.ProfileShow,
			},
			{
				Name:  "update",
				Usage: "Update your profile",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "full-name", Usage: "Full name"},
					&cli.StringFlag{Name: "bio", Usage: "Short biography"},
					&cli.StringFlag{Name: "avatar-url", Usage: "Avatar image URL"},
				},
				Action: r.ProfileUpdate,
			},
		},
	}
}

// waterCommand handles the water-intake tracker
func waterCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "water",
		Usage: "Track glasses of water",
		Commands: []*cli.Command{
			{Name: "show", Usage: "Show today's progress", Action: r.WaterShow},
			{
				Name:   "add",
				Usage:  "Add glasses (negative to remove)",
				Flags:  []cli.Flag{&cli.IntFlag{Name: "glasses", Aliases: []string{"n"}, Value: 1, Usage: "Glasses to add"}},
				Action: r.WaterAdd,
			},
			{Name: "reset", Usage: "Reset the counter", Action: r.WaterReset},
		},
	}
}

// cacheCommand handles the local catalog cache
func cacheCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "cache",
		Usage: "Cache the catalog locally",
		Commands: []*cli.Command{
			{
				Name:   "videos",
				Usage:  "Fetch the catalog and store it for offline use",
				Flags:  []cli.Flag{&cli.BoolFlag{Name: "clear", Usage: "Remove the cached catalog instead"}},
				Action: r.CacheVideos,
			},
		},
	}
}

// apiCommand handles direct API calls
func apiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "api",
		Usage: "Direct calls to the backend",
		Commands: []*cli.Command{
			{
				Name:      "get",
				Usage:     "Direct GET, prints raw JSON",
				Arguments: []cli.Argument{&cli.StringArg{Name: "path"}},
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "pretty", Usage: "Pretty-print output", Value: true},
					&cli.BoolFlag{Name: "auth", Usage: "Send the session's identity headers"},
					&cli.StringFlag{Name: "curl", Usage: "Reuse the headers of a cURL command saved to `FILE`"},
				},
				Action: r.APIGet,
			},
			{
				Name:      "post",
				Usage:     "Direct POST with JSON body",
				Arguments: []cli.Argument{&cli.StringArg{Name: "path"}},
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "data", Aliases: []string{"d"}, Usage: "JSON body to send", Required: true},
					&cli.BoolFlag{Name: "auth", Usage: "Send the session's identity headers"},
					&cli.StringFlag{Name: "curl", Usage: "Reuse the headers of a cURL command saved to `FILE`"},
				},
				Action: r.APIPost,
			},
		},
	}
}

// tuiCommand returns the top-level TUI command for interactive browsing.
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "tui",
		Aliases: []string{"interactive", "ui"},
		Usage:   "Launch the interactive video browser",
		Action:  r.TUI,
	}
}

// serveCommand starts the development backend.
func serveCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Run the local development backend",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "addr", Usage: "Listen address (default from config)"},
			&cli.StringFlag{Name: "fixture", Usage: "JSON fixture with videos, exercises and accounts"},
		},
		Action: r.Serve,
	}
}
