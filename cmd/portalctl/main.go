// Command portalctl is the operator CLI of the doctors portal.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/hafiz229/doctors-portal-server/internal/config"
	"github.com/hafiz229/doctors-portal-server/internal/database"
	"github.com/hafiz229/doctors-portal-server/internal/users"
	"github.com/hafiz229/doctors-portal-server/pkg/logger"
	"github.com/spf13/cobra"
)

var Version = "dev"

// userStoreFunc opens the user service and returns a func releasing it.
type userStoreFunc func(ctx context.Context) (*users.Service, func(), error)

func main() {
	logger.Init(os.Getenv("LOG_LEVEL"))
	if err := rootCmd(mongoUsers).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func rootCmd(open userStoreFunc) *cobra.Command {
	root := &cobra.Command{
		Use:           "portalctl",
		Short:         "Operator tasks for the doctors portal",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(promoteCmd(open))
	root.AddCommand(adminsCmd(open))
	root.AddCommand(tokenCmd())
	return root
}

func mongoUsers(ctx context.Context) (*users.Service, func(), error) {
	cfg, err := config.LoadConfig(true)
	if err != nil {
		return nil, nil, err
	}
	client, err := database.ConnectMongo(ctx, cfg.MongoDB.URI, cfg.MongoDB.Timeout)
	if err != nil {
		return nil, nil, err
	}
	col := client.Database(cfg.MongoDB.Database).Collection(database.UsersCollection)
	release := func() { _ = client.Disconnect(context.Background()) }
	return users.NewService(users.NewMongoUserRepository(col)), release, nil
}
