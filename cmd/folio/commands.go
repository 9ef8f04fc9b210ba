package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/mmcdole/folio/internal/domain"
)

const commandTimeout = 60 * time.Second

// newListCmd prints the library as a table
func newListCmd() *cobra.Command {
	var search string
	var status string
	var fuzzy bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List books in the library",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := setup()
			if err != nil {
				return err
			}
			defer a.close()

			ctx, cancel := context.WithTimeout(cmd.Context(), commandTimeout)
			defer cancel()

			if err := a.store.Fetch(ctx, domain.ListParams{}); err != nil {
				if !a.store.Loaded() {
					return err
				}
				fmt.Fprintln(os.Stderr, "warning: server unreachable, showing cached list")
			}

			var books []domain.Book
			switch {
			case search != "" && fuzzy:
				books = a.store.SearchRanked(search)
			case search != "":
				books = a.store.Search(search)
			default:
				books = a.store.Books()
			}
			if status != "" {
				filtered := books[:0]
				for _, b := range books {
					if b.Status == domain.ReadingStatus(status) {
						filtered = append(filtered, b)
					}
				}
				books = filtered
			}

			if len(books) == 0 {
				fmt.Println("no books")
				return nil
			}

			fmt.Printf("%-24s %-40s %-5s %-12s %8s %5s\n", "ID", "TITLE", "TYPE", "STATUS", "PAGES", "PROG")
			for _, b := range books {
				fmt.Printf("%-24s %-40s %-5s %-12s %8s %4d%%\n",
					b.ID, b.Title, b.FileType, b.Status, b.PageLabel(), b.Progress)
			}

			st := a.store.Stats()
			fmt.Printf("\n%d books · %d reading · %d completed · %d not started\n",
				st.Total, st.Reading, st.Completed, st.NotStarted)
			return nil
		},
	}

	cmd.Flags().StringVarP(&search, "search", "s", "", "filter by title")
	cmd.Flags().StringVar(&status, "status", "", "filter by status (not-started|reading|completed)")
	cmd.Flags().BoolVar(&fuzzy, "fuzzy", false, "rank search results by fuzzy match")
	return cmd
}

// newUploadCmd sends a document to the library
func newUploadCmd() *cobra.Command {
	var title string

	cmd := &cobra.Command{
		Use:   "upload <file>",
		Short: "Upload a PDF or EPUB document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := setup()
			if err != nil {
				return err
			}
			defer a.close()

			path := args[0]
			if title == "" {
				base := filepath.Base(path)
				title = base[:len(base)-len(filepath.Ext(base))]
			}

			f, err := os.Open(path)
			if err != nil {
				return err
			}
			defer f.Close()

			ctx, cancel := context.WithTimeout(cmd.Context(), 5*time.Minute)
			defer cancel()

			book, err := a.store.Upload(ctx, f, filepath.Base(path), title)
			if err != nil {
				return err
			}

			fmt.Printf("uploaded %q (id %s)\n", book.Title, book.ID)
			return nil
		},
	}

	cmd.Flags().StringVarP(&title, "title", "t", "", "display title (defaults to the file name)")
	return cmd
}

// newRmCmd deletes a book
func newRmCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rm <id>",
		Short: "Delete a book from the library",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := setup()
			if err != nil {
				return err
			}
			defer a.close()

			ctx, cancel := context.WithTimeout(cmd.Context(), commandTimeout)
			defer cancel()

			if err := a.store.Delete(ctx, args[0]); err != nil {
				return err
			}
			fmt.Printf("deleted %s\n", args[0])
			return nil
		},
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the folio version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("folio %s\n", Version)
		},
	}
}
