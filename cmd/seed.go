package cmd

import (
	"errors"
	"fmt"

	"movie-comments/internal/data/repository"
	"movie-comments/internal/dto/request"
	"movie-comments/internal/usecase"
	"movie-comments/pkg/apperror"
	"movie-comments/pkg/database"

	"github.com/spf13/cobra"
)

var (
	username string
	email    string
	password string

	movieTitle       string
	movieDescription string
	movieYear        int
)

var userCmd = &cobra.Command{
	Use:   "user",
	Short: "Manage user accounts",
}

var userCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a user account",
	RunE:  runUserCreate,
}

var movieCmd = &cobra.Command{
	Use:   "movie",
	Short: "Manage movies",
}

var movieCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a movie",
	RunE:  runMovieCreate,
}

func init() {
	userCreateCmd.Flags().StringVar(&username, "username", "", "Username")
	userCreateCmd.Flags().StringVar(&email, "email", "", "Email address")
	userCreateCmd.Flags().StringVar(&password, "password", "", "Password (min 6 characters)")
	_ = userCreateCmd.MarkFlagRequired("username")
	_ = userCreateCmd.MarkFlagRequired("email")
	_ = userCreateCmd.MarkFlagRequired("password")
	userCmd.AddCommand(userCreateCmd)

	movieCreateCmd.Flags().StringVar(&movieTitle, "title", "", "Movie title")
	movieCreateCmd.Flags().StringVar(&movieDescription, "description", "", "Short description")
	movieCreateCmd.Flags().IntVar(&movieYear, "year", 0, "Release year")
	_ = movieCreateCmd.MarkFlagRequired("title")
	movieCmd.AddCommand(movieCreateCmd)
}

func runUserCreate(cmd *cobra.Command, args []string) error {
	service, closeDB, err := openService()
	if err != nil {
		return err
	}
	defer closeDB()

	user, err := service.Auth.CreateUser(cmd.Context(), &request.CreateUserRequest{
		Username: username,
		Email:    email,
		Password: password,
	})
	if err != nil {
		return describe(err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "created user %d (%s)\n", user.ID, user.Username)
	return nil
}

func runMovieCreate(cmd *cobra.Command, args []string) error {
	service, closeDB, err := openService()
	if err != nil {
		return err
	}
	defer closeDB()

	req := &request.CreateMovieRequest{Title: movieTitle}
	if movieDescription != "" {
		req.Description = &movieDescription
	}
	if movieYear != 0 {
		req.ReleaseYear = &movieYear
	}

	movie, err := service.Movie.CreateMovie(cmd.Context(), req)
	if err != nil {
		return describe(err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "created movie %d (%s)\n", movie.ID, movie.Title)
	return nil
}

func openService() (*usecase.Service, func(), error) {
	config, logger, err := bootstrap()
	if err != nil {
		return nil, nil, err
	}

	db, err := database.InitDB(config.Database)
	if err != nil {
		logger.Sync()
		return nil, nil, fmt.Errorf("connect database: %w", err)
	}

	service := usecase.NewService(repository.NewRepository(db, logger), config, logger)
	return service, func() {
		db.Close()
		logger.Sync()
	}, nil
}

// describe spells out field errors for the terminal
func describe(err error) error {
	var verr *apperror.ValidationError
	if errors.As(err, &verr) {
		return fmt.Errorf("invalid input: %s", verr.Error())
	}
	return err
}
