// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

func jsonFlag() cli.Flag {
	return &cli.BoolFlag{Name: "json", Usage: "Output raw JSON"}
}

func prettyFlag(value bool) cli.Flag {
	return &cli.BoolFlag{Name: "pretty", Usage: "Pretty-print output", Value: value}
}

func credentialFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "username", Aliases: []string{"u"}, Usage: "Account username", Required: true},
		&cli.StringFlag{Name: "password", Aliases: []string{"p"}, Usage: "Account password", Sources: cli.EnvVars("VIDX_PASSWORD")},
	}
}

func idArgs(name string) []cli.Argument {
	return []cli.Argument{&cli.StringArg{Name: name}}
}

// setupCommand handles setup operations for the session database and configuration.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Setup and configuration commands",
		Commands: []*cli.Command{
			{
				Name:  "database",
				Usage: "Initialize the session database and run migrations",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "config",
						Aliases: []string{"c"},
						Usage:   "Path to configuration file",
						Value:   "config.toml",
					},
				},
				Action: r.SetupDatabase,
			},
			{
				Name:  "config",
				Usage: "Write a config.toml from the bundled template",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Path to write the configuration file",
						Value:   "config.toml",
					},
				},
				Action: r.SetupConfig,
			},
		},
	}
}

// authCommand handles authentication operations
func authCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "auth",
		Usage: "Manage authentication",
		Commands: []*cli.Command{
			{
				Name:   "login",
				Usage:  "Sign in and store the session token",
				Flags:  credentialFlags(),
				Action: r.AuthLogin,
			},
			{
				Name:  "register",
				Usage: "Create an account and sign in with it",
				Flags: append([]cli.Flag{
					&cli.StringFlag{Name: "email", Aliases: []string{"e"}, Usage: "Account email"},
				}, credentialFlags()...),
				Action: r.AuthRegister,
			},
			{
				Name:   "logout",
				Usage:  "Forget the stored session",
				Action: r.AuthLogout,
			},
			{
				Name:   "status",
				Usage:  "Show the current session",
				Action: r.AuthStatus,
			},
			{
				Name:  "import",
				Usage: "Store a bearer token copied from browser DevTools (Copy as cURL)",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "curl", Usage: "cURL command from browser DevTools"},
					&cli.StringFlag{Name: "curl-file", Usage: "Path to .sh file containing cURL command"},
					&cli.StringFlag{Name: "username", Aliases: []string{"u"}, Usage: "Username to record with the token"},
				},
				Action: r.AuthImport,
			},
		},
	}
}

// videoCommand handles listing, watching, and reacting to videos
func videoCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "video",
		Aliases: []string{"v"},
		Usage:   "Video operations",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List the latest videos",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "search", Aliases: []string{"s"}, Usage: "Search query"},
					&cli.StringFlag{Name: "category", Usage: "Category ID"},
					&cli.StringFlag{Name: "ordering", Usage: "Ordering field", Value: "-created_at"},
					&cli.IntFlag{Name: "limit", Usage: "Page size", Value: 20},
					jsonFlag(),
					prettyFlag(true),
				},
				Action: r.VideoList,
			},
			{
				Name:      "show",
				Usage:     "Show one video and record a view when signed in",
				Arguments: idArgs("id"),
				Flags:     []cli.Flag{jsonFlag(), prettyFlag(true)},
				Action:    r.VideoShow,
			},
			{
				Name:      "like",
				Usage:     "Toggle a like on a video",
				Arguments: idArgs("id"),
				Action:    r.VideoLike,
			},
			{
				Name:      "dislike",
				Usage:     "Toggle a dislike on a video",
				Arguments: idArgs("id"),
				Action:    r.VideoDislike,
			},
			{
				Name:      "view",
				Usage:     "Record a view",
				Arguments: idArgs("id"),
				Action:    r.VideoView,
			},
			{
				Name:      "open",
				Usage:     "Open the video's watch page in the browser",
				Arguments: idArgs("id"),
				Action:    r.VideoOpen,
			},
			{
				Name:  "upload",
				Usage: "Upload a video file",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "title", Aliases: []string{"t"}, Usage: "Video title", Required: true},
					&cli.StringFlag{Name: "description", Aliases: []string{"d"}, Usage: "Video description"},
					&cli.StringFlag{Name: "category", Usage: "Category ID"},
					&cli.StringFlag{Name: "file", Aliases: []string{"f"}, Usage: "Path to the video file", Required: true},
					&cli.StringFlag{Name: "thumbnail", Usage: "Path to a thumbnail image"},
					jsonFlag(),
				},
				Action: r.VideoUpload,
			},
		},
	}
}

// commentCommand handles a video's comment thread
func commentCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "comment",
		Aliases: []string{"c"},
		Usage:   "Comment operations",
		Commands: []*cli.Command{
			{
				Name:      "list",
				Usage:     "Show a video's comments with their replies",
				Arguments: idArgs("video"),
				Flags:     []cli.Flag{jsonFlag(), prettyFlag(true)},
				Action:    r.CommentList,
			},
			{
				Name:  "add",
				Usage: "Post a root comment",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "video"},
					&cli.StringArg{Name: "content"},
				},
				Action: r.CommentAdd,
			},
			{
				Name:  "reply",
				Usage: "Reply to a comment",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "video"},
					&cli.StringArg{Name: "parent"},
					&cli.StringArg{Name: "content"},
				},
				Action: r.CommentReply,
			},
		},
	}
}

// playlistCommand handles playlists, membership, and export
func playlistCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "playlist",
		Aliases: []string{"pl"},
		Usage:   "Playlist operations",
		Commands: []*cli.Command{
			{
				Name:   "list",
				Usage:  "List your playlists",
				Flags:  []cli.Flag{jsonFlag(), prettyFlag(true)},
				Action: r.PlaylistList,
			},
			{
				Name:  "create",
				Usage: "Create a playlist",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "name"},
				},
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "description", Aliases: []string{"d"}, Usage: "Playlist description"},
					&cli.BoolFlag{Name: "public", Usage: "Make the playlist public"},
					&cli.StringFlag{Name: "video", Usage: "Video ID to add after creating"},
				},
				Action: r.PlaylistCreate,
			},
			{
				Name:      "videos",
				Usage:     "List a playlist's videos",
				Arguments: idArgs("id"),
				Flags:     []cli.Flag{jsonFlag(), prettyFlag(true)},
				Action:    r.PlaylistVideos,
			},
			{
				Name:      "check",
				Usage:     "Show which of your playlists contain a video",
				Arguments: idArgs("video"),
				Flags:     []cli.Flag{jsonFlag()},
				Action:    r.PlaylistCheck,
			},
			{
				Name:  "toggle",
				Usage: "Add a video to a playlist, or remove it when already present",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "playlist"},
					&cli.StringArg{Name: "video"},
				},
				Action: r.PlaylistToggle,
			},
			{
				Name:      "export",
				Usage:     "Export playlists to files (pass ids, or --all)",
				ArgsUsage: "[playlist ids...]",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "all", Usage: "Export every playlist"},
					&cli.StringFlag{Name: "format", Aliases: []string{"f"}, Usage: "Export format: json, csv, markdown, txt", Value: "json"},
					&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Usage: "Output directory"},
					&cli.IntFlag{Name: "workers", Usage: "Concurrent writers for bulk exports", Value: 5},
					&cli.FloatFlag{Name: "rate", Usage: "Playlist fetches per second for bulk exports", Value: 5},
				},
				Action: r.PlaylistExport,
			},
		},
	}
}

// subscriptionCommand handles channel subscriptions
func subscriptionCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "subscription",
		Aliases: []string{"sub"},
		Usage:   "Channel subscription operations",
		Commands: []*cli.Command{
			{
				Name:   "list",
				Usage:  "List your subscriptions",
				Flags:  []cli.Flag{jsonFlag(), prettyFlag(true)},
				Action: r.SubscriptionList,
			},
			{
				Name:      "status",
				Usage:     "Check whether you subscribe to a channel",
				Arguments: idArgs("channel"),
				Action:    r.SubscriptionStatus,
			},
			{
				Name:      "toggle",
				Usage:     "Subscribe to a channel, or unsubscribe when already subscribed",
				Arguments: idArgs("channel"),
				Action:    r.SubscriptionToggle,
			},
		},
	}
}

// categoryCommand lists upload categories
func categoryCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "category",
		Usage: "Category operations",
		Commands: []*cli.Command{
			{
				Name:   "list",
				Usage:  "List upload categories",
				Flags:  []cli.Flag{jsonFlag(), prettyFlag(true)},
				Action: r.CategoryList,
			},
		},
	}
}

// apiCommand handles raw API calls and diagnostics
func apiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "api",
		Usage: "Direct calls to the platform API",
		Commands: []*cli.Command{
			{
				Name:  "get",
				Usage: "Direct GET, prints raw JSON",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "path"},
				},
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "json", Usage: "Output compact JSON", Value: true},
				},
				Action: r.APIGet,
			},
			{
				Name:  "post",
				Usage: "Direct POST with JSON body",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "path"},
				},
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "data",
						Aliases:  []string{"d"},
						Usage:    "JSON body to send",
						Required: true,
					},
				},
				Action: r.APIPost,
			},
			{
				Name:  "dump",
				Usage: "Fetch the main listings and report each response envelope",
				Flags: []cli.Flag{
					prettyFlag(true),
					&cli.BoolFlag{Name: "save", Usage: "Save dump to api_dump.json"},
				},
				Action: r.APIDump,
			},
		},
	}
}

// tuiCommand returns the top-level TUI command.
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "tui",
		Aliases: []string{"interactive", "ui"},
		Usage:   "Launch the interactive watch UI",
		Action:  r.TUI,
	}
}
