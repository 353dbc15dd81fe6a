package commands

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/taskflow/office/internal/adapters/memory"
	"github.com/taskflow/office/internal/adapters/repository"
	"github.com/taskflow/office/internal/application/services"
	"github.com/taskflow/office/internal/domain/entities"
	"github.com/taskflow/office/internal/infrastructure/config"
	"github.com/taskflow/office/internal/infrastructure/database"
	"github.com/taskflow/office/internal/infrastructure/logger"
	"github.com/taskflow/office/internal/infrastructure/server"
	"github.com/taskflow/office/internal/ports"
)

// Build metadata, overridden with -ldflags at release time
var (
	Version   = "dev"
	GitCommit = "development"
)

const shutdownTimeout = 15 * time.Second

// NewServeCommand creates the serve command
func NewServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the TaskFlow API server",
		Long:  "Start the TaskFlow API server with all configured routes and middleware",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer()
		},
	}
}

// NewMigrateCommand creates the migrate command with subcommands
func NewMigrateCommand() *cobra.Command {
	migrateCmd := &cobra.Command{
		Use:   "migrate",
		Short: "Database migration commands",
		Long:  "Manage database migrations (up, down, version)",
	}

	var steps int

	upCmd := &cobra.Command{
		Use:   "up",
		Short: "Apply pending up migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMigration("up", steps)
		},
	}
	upCmd.Flags().IntVar(&steps, "steps", 0, "Number of migrations to apply (0 applies all)")

	downCmd := &cobra.Command{
		Use:   "down",
		Short: "Roll back migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMigration("down", steps)
		},
	}
	downCmd.Flags().IntVar(&steps, "steps", 0, "Number of migrations to roll back (0 rolls back all)")

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print current migration version",
		RunE: func(cmd *cobra.Command, args []string) error {
			return showMigrationVersion()
		},
	}

	migrateCmd.AddCommand(upCmd, downCmd, versionCmd)
	return migrateCmd
}

// NewSeedCommand creates the seed command
func NewSeedCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Insert the default departments and users into an empty database",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStorage(func(cfg *config.Config, repos ports.Repositories, appLogger *logger.Logger) error {
				seeded, err := services.NewSeedService(repos.Seed, appLogger).Seed(cmd.Context())
				if err != nil {
					return err
				}
				if seeded {
					fmt.Println("Default data seeded")
				} else {
					fmt.Println("Departments already exist, nothing seeded")
				}
				return nil
			})
		},
	}
}

// NewUserCommand creates the user management command
func NewUserCommand() *cobra.Command {
	userCmd := &cobra.Command{
		Use:   "user",
		Short: "User management commands",
		Long:  "Create and manage users in the system",
	}

	var req struct {
		email, password, name, role, departmentID string
	}

	createUserCmd := &cobra.Command{
		Use:   "create",
		Short: "Create a new user",
		RunE: func(cmd *cobra.Command, args []string) error {
			register, err := registerRequest(req.name, req.email, req.password, req.role, req.departmentID)
			if err != nil {
				return err
			}

			return withStorage(func(cfg *config.Config, repos ports.Repositories, appLogger *logger.Logger) error {
				authService := services.NewAuthService(repos.Users, repos.Departments, cfg.JWT, appLogger)
				user, err := authService.Register(cmd.Context(), register)
				if err != nil {
					return fmt.Errorf("failed to create user: %w", err)
				}

				fmt.Printf("User created successfully:\n")
				fmt.Printf("  ID: %s\n", user.ID)
				fmt.Printf("  Email: %s\n", user.Email)
				fmt.Printf("  Name: %s\n", user.Name)
				fmt.Printf("  Role: %s\n", user.Role)
				if user.DepartmentName != nil {
					fmt.Printf("  Department: %s\n", *user.DepartmentName)
				}
				return nil
			})
		},
	}

	createUserCmd.Flags().StringVar(&req.email, "email", "", "User email (required)")
	createUserCmd.Flags().StringVar(&req.password, "password", "", "User password (required)")
	createUserCmd.Flags().StringVar(&req.name, "name", "", "Display name (required)")
	createUserCmd.Flags().StringVar(&req.role, "role", string(entities.UserRoleEmployee), "User role (Employee, HOD, Super Admin)")
	createUserCmd.Flags().StringVar(&req.departmentID, "department-id", "", "Department ID")
	_ = createUserCmd.MarkFlagRequired("email")
	_ = createUserCmd.MarkFlagRequired("password")
	_ = createUserCmd.MarkFlagRequired("name")

	userCmd.AddCommand(createUserCmd)
	return userCmd
}

// NewDepartmentCommand creates the department management command
func NewDepartmentCommand() *cobra.Command {
	departmentCmd := &cobra.Command{
		Use:   "department",
		Short: "Department management commands",
	}

	var req ports.CreateDepartmentRequest

	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Create a new department",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStorage(func(cfg *config.Config, repos ports.Repositories, appLogger *logger.Logger) error {
				userService := services.NewUserService(repos.Users, repos.Departments, appLogger)
				department, err := userService.CreateDepartment(cmd.Context(), req)
				if err != nil {
					return fmt.Errorf("failed to create department: %w", err)
				}

				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Department created successfully:\n")
				fmt.Fprintf(out, "  ID: %s\n", department.ID)
				fmt.Fprintf(out, "  Name: %s\n", department.Name)
				return nil
			})
		},
	}

	createCmd.Flags().StringVar(&req.Name, "name", "", "Department name (required)")
	createCmd.Flags().StringVar(&req.Description, "description", "", "Department description")
	_ = createCmd.MarkFlagRequired("name")

	departmentCmd.AddCommand(createCmd)
	return departmentCmd
}

// NewVersionCommand creates the version command
func NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print TaskFlow version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("TaskFlow %s\n", Version)
			fmt.Printf("Git Commit: %s\n", GitCommit)
		},
	}
}

func registerRequest(name, email, password, role, departmentID string) (ports.RegisterRequest, error) {
	req := ports.RegisterRequest{
		Name:     name,
		Email:    email,
		Password: password,
		Role:     entities.UserRole(role),
	}
	if !req.Role.IsValid() {
		return req, fmt.Errorf("invalid role %q", role)
	}
	if departmentID != "" {
		id, err := uuid.Parse(departmentID)
		if err != nil {
			return req, fmt.Errorf("invalid department id: %w", err)
		}
		req.DepartmentID = &id
	}
	return req, nil
}

// openStorage returns the repositories for the configured driver and a
// function releasing them
func openStorage(cfg *config.Config) (ports.Repositories, func() error, error) {
	switch cfg.Database.Driver {
	case config.DriverMemory:
		return memory.NewStore().Repositories(), func() error { return nil }, nil
	case config.DriverPostgres:
		db, err := database.New(cfg.Database)
		if err != nil {
			return ports.Repositories{}, nil, err
		}
		return repository.NewRepositories(db), db.Close, nil
	}
	return ports.Repositories{}, nil, fmt.Errorf("unsupported database driver %q", cfg.Database.Driver)
}

func withStorage(fn func(cfg *config.Config, repos ports.Repositories, appLogger *logger.Logger) error) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	appLogger, err := logger.New(cfg.Logger)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer appLogger.Close()

	repos, closeStorage, err := openStorage(cfg)
	if err != nil {
		return fmt.Errorf("failed to open storage: %w", err)
	}
	defer closeStorage()

	announceStorage(cfg, appLogger)

	return fn(cfg, repos, appLogger)
}

// announceStorage flags in-memory storage outside development, where losing
// data on exit is unexpected
func announceStorage(cfg *config.Config, appLogger *logger.Logger) {
	if cfg.Database.Driver != config.DriverMemory {
		appLogger.Infow("Using PostgreSQL storage", "host", cfg.Database.Host, "database", cfg.Database.Name)
		return
	}
	if cfg.App.IsDevelopment() {
		appLogger.Infow("Using in-memory storage", "environment", cfg.App.Environment)
		return
	}
	appLogger.Warnw("Using in-memory storage, data is lost on exit", "environment", cfg.App.Environment)
}

func runServer() error {
	return withStorage(func(cfg *config.Config, repos ports.Repositories, appLogger *logger.Logger) error {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		if cfg.Seed.OnStart {
			services.NewSeedService(repos.Seed, appLogger).SeedOnStart(ctx)
		}

		srv, err := server.New(cfg, repos, appLogger)
		if err != nil {
			return fmt.Errorf("failed to initialize server: %w", err)
		}

		appLogger.Infow("Starting TaskFlow API server",
			"address", cfg.Server.GetAddress(),
			"environment", cfg.App.Environment,
			"driver", cfg.Database.Driver,
		)

		errCh := make(chan error, 1)
		go func() {
			if err := srv.Start(cfg.Server.GetAddress()); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- err
			}
			close(errCh)
		}()

		select {
		case err := <-errCh:
			if err != nil {
				return fmt.Errorf("server failed: %w", err)
			}
			return nil
		case <-ctx.Done():
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		appLogger.Infow("Server stopped")
		return nil
	})
}

func newMigrator(cfg *config.Config) (*migrate.Migrate, func() error, error) {
	if cfg.Database.Driver != config.DriverPostgres {
		return nil, nil, fmt.Errorf("migrations require the %s driver, got %q", config.DriverPostgres, cfg.Database.Driver)
	}

	db, err := database.New(cfg.Database)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	driver, err := postgres.WithInstance(db.DB.DB, &postgres.Config{})
	if err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("failed to create migration driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance(cfg.Database.MigrationsPath, "postgres", driver)
	if err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("failed to create migration instance: %w", err)
	}

	return m, db.Close, nil
}

func runMigration(direction string, steps int) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	m, closeDB, err := newMigrator(cfg)
	if err != nil {
		return err
	}
	defer closeDB()

	switch direction {
	case "up":
		if steps > 0 {
			err = m.Steps(steps)
		} else {
			err = m.Up()
		}
	case "down":
		if steps > 0 {
			err = m.Steps(-steps)
		} else {
			err = m.Down()
		}
	default:
		return fmt.Errorf("unknown migration direction %q", direction)
	}

	if errors.Is(err, migrate.ErrNoChange) {
		fmt.Println("No migrations to run")
		return nil
	}
	if err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	fmt.Printf("Migration %s completed successfully\n", direction)
	return nil
}

func showMigrationVersion() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	m, closeDB, err := newMigrator(cfg)
	if err != nil {
		return err
	}
	defer closeDB()

	version, dirty, err := m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		fmt.Println("No migrations applied")
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to get migration version: %w", err)
	}

	fmt.Printf("Current migration version: %d\n", version)
	fmt.Printf("Dirty: %t\n", dirty)
	return nil
}
