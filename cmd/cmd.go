// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

// setupCommand handles setup operations for configuration and the local database.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Setup and configuration commands",
		Commands: []*cli.Command{
			{
				Name:  "database",
				Usage: "Initialize local database and run migrations",
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
				Name:  "login",
				Usage: "Log in to the MealStack backend",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "username",
						Aliases:  []string{"u"},
						Usage:    "Account username",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "password",
						Aliases:  []string{"p"},
						Usage:    "Account password",
						Required: true,
					},
				},
				Action: r.AuthLogin,
			},
			{
				Name:   "logout",
				Usage:  "Clear the stored session",
				Action: r.AuthLogout,
			},
			{
				Name:  "register",
				Usage: "Create a new account",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "username",
						Aliases:  []string{"u"},
						Usage:    "Account username",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "email",
						Aliases:  []string{"e"},
						Usage:    "Account email",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "password",
						Aliases:  []string{"p"},
						Usage:    "Account password",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "repeat-password",
						Usage:    "Password confirmation",
						Required: true,
					},
				},
				Action: r.AuthRegister,
			},
			{
				Name:  "whoami",
				Usage: "Show the current session",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.AuthWhoami,
			},
		},
	}
}

// recipesCommand handles recipe CRUD operations
func recipesCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "recipes",
		Aliases: []string{"recipe"},
		Usage:   "Recipe operations",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List saved recipes",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
					&cli.BoolFlag{
						Name:  "csv",
						Usage: "Output CSV",
					},
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print output",
						Value: true,
					},
				},
				Action: r.RecipesList,
			},
			{
				Name:  "get",
				Usage: "Show a single recipe",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.RecipesGet,
			},
			{
				Name:  "create",
				Usage: "Save a new recipe",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "title",
						Usage:    "Recipe title",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "description",
						Usage: "Recipe description",
					},
					&cli.StringFlag{
						Name:  "url",
						Usage: "Source video URL",
					},
					&cli.StringFlag{
						Name:  "tag",
						Usage: "Recipe tag",
					},
				},
				Action: r.RecipesCreate,
			},
			{
				Name:  "update",
				Usage: "Update an existing recipe",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "title",
						Usage:    "Recipe title",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "description",
						Usage: "Recipe description",
					},
					&cli.StringFlag{
						Name:  "url",
						Usage: "Source video URL",
					},
					&cli.StringFlag{
						Name:  "tag",
						Usage: "Recipe tag",
					},
				},
				Action: r.RecipesUpdate,
			},
			{
				Name:  "delete",
				Usage: "Delete a recipe",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Action: r.RecipesDelete,
			},
		},
	}
}

// downloadCommand handles bulk video download operations
func downloadCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "download",
		Aliases: []string{"dl"},
		Usage:   "Bulk video download operations",
		Commands: []*cli.Command{
			{
				Name:  "run",
				Usage: "Download up to 10 videos as a zip archive",
				Flags: []cli.Flag{
					&cli.StringSliceFlag{
						Name:    "url",
						Aliases: []string{"u"},
						Usage:   "Video URL (repeatable, up to 10)",
					},
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Directory to save the archive to",
					},
				},
				Action: r.DownloadRun,
			},
			{
				Name:  "ui",
				Usage: "Interactive TUI for bulk downloads",
				Flags: []cli.Flag{
					&cli.StringSliceFlag{
						Name:    "url",
						Aliases: []string{"u"},
						Usage:   "Video URL (repeatable, up to 10)",
					},
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Directory to save the archive to",
					},
				},
				Action: r.DownloadUI,
			},
			{
				Name:  "history",
				Usage: "Show local download history",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Maximum number of records to show",
						Value: 20,
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.DownloadHistory,
			},
		},
	}
}

// adminCommand handles administrator operations
func adminCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "admin",
		Usage: "Administrator operations",
		Commands: []*cli.Command{
			{
				Name:  "users",
				Usage: "List registered users with download counts",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.AdminUsers,
			},
			{
				Name:  "edit",
				Usage: "Edit a user's username and email",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "username",
						Usage:    "New username",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "email",
						Usage:    "New email",
						Required: true,
					},
				},
				Action: r.AdminEdit,
			},
			{
				Name:  "delete",
				Usage: "Delete a user account",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Action: r.AdminDelete,
			},
			{
				Name:  "refresh-cookie",
				Usage: "Refresh the backend's TikTok session cookie",
				Action: r.AdminRefreshCookie,
			},
		},
	}
}

// apiCommand handles direct backend API calls
func apiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "api",
		Usage: "Direct API calls to the MealStack backend",
		Commands: []*cli.Command{
			{
				Name:  "get",
				Usage: "Direct GET, prints raw JSON",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "path"},
				},
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print output",
						Value: true,
					},
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
		},
	}
}
