package main

import (
	"fmt"
	"net/http"
	"os"

	"github.com/gorilla/mux"
	"github.com/urfave/cli/v2"

	"github.com/supplyops/planner/internal/drive"
)

func newDriveCommand() *cli.Command {
	credentialsFlag := &cli.StringFlag{
		Name:     "credentials",
		Usage:    "Path to a Google service-account credentials JSON file",
		Required: true,
		EnvVars:  []string{"DRIVE_CREDENTIALS_FILE"},
	}
	folderFlag := &cli.StringFlag{
		Name:    "folder",
		Usage:   "Drive folder id holding the demand files",
		EnvVars: []string{"DRIVE_FOLDER_ID"},
	}

	return &cli.Command{
		Name:  "drive",
		Usage: "Pull demand files from a Google Drive folder",
		Subcommands: []*cli.Command{
			{
				Name:  "sync",
				Usage: "Download the folder's demand files once",
				Flags: []cli.Flag{
					credentialsFlag,
					folderFlag,
					&cli.StringFlag{
						Name:  "dir",
						Usage: "Local directory for downloaded files",
						Value: "./data/uploads",
					},
				},
				Action: runDriveSync,
			},
			{
				Name:  "serve",
				Usage: "Serve the drive list/sync endpoints over HTTP",
				Flags: []cli.Flag{
					credentialsFlag,
					folderFlag,
					&cli.StringFlag{
						Name:  "dir",
						Usage: "Local directory for downloaded files",
						Value: "./data/uploads",
					},
					&cli.StringFlag{
						Name:  "addr",
						Usage: "Listen address",
						Value: ":8090",
					},
				},
				Action: runDriveServe,
			},
		},
	}
}

func newDriveService(c *cli.Context) (*drive.Service, error) {
	credentials, err := os.ReadFile(c.String("credentials"))
	if err != nil {
		return nil, fmt.Errorf("failed to read credentials file: %w", err)
	}
	return drive.NewService(credentials)
}

func runDriveSync(c *cli.Context) error {
	service, err := newDriveService(c)
	if err != nil {
		return err
	}

	paths, err := drive.NewDownloader(service).DownloadDemandFiles(c.Context, drive.DownloadOptions{
		FolderID:    c.String("folder"),
		DownloadDir: c.String("dir"),
	})
	if err != nil {
		return err
	}

	for _, path := range paths {
		fmt.Println(path)
	}
	fmt.Printf("downloaded %d demand file(s)\n", len(paths))
	return nil
}

func runDriveServe(c *cli.Context) error {
	service, err := newDriveService(c)
	if err != nil {
		return err
	}

	router := mux.NewRouter()
	drive.NewHandler(service, c.String("dir")).RegisterRoutes(router)

	fmt.Printf("serving drive endpoints on %s\n", c.String("addr"))
	return http.ListenAndServe(c.String("addr"), router)
}
