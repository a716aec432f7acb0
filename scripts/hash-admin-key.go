// Command hash-admin-key prints the SHA-256 digest of an admin creation key
// for the ADMIN_CREATION_KEY_HASH environment variable. With -promote-email
// it also grants the admin role to an existing profile, which is how the
// first admin of a fresh deployment is created.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/courtside/courtside/internal/auth"
	"github.com/courtside/courtside/internal/model"
	"github.com/courtside/courtside/internal/repository"
)

func main() {
	var (
		key          = flag.String("key", "", "Admin creation key (read from stdin when empty)")
		databaseURL  = flag.String("database-url", os.Getenv("DATABASE_URL"), "PostgreSQL connection string")
		promoteEmail = flag.String("promote-email", "", "Email of an existing profile to promote to admin")
	)
	flag.Parse()

	secret := *key
	if secret == "" {
		fmt.Fprint(os.Stderr, "admin creation key: ")
		reader := bufio.NewReader(os.Stdin)
		line, err := reader.ReadString('\n')
		if err != nil && line == "" {
			fmt.Fprintln(os.Stderr, "read key:", err)
			os.Exit(1)
		}
		secret = strings.TrimSpace(line)
	}

	if secret == "" {
		fmt.Fprintln(os.Stderr, "key must not be empty")
		os.Exit(1)
	}

	digest := auth.DigestAdminKey(secret)
	fmt.Println(digest)

	if *promoteEmail == "" {
		return
	}

	if *databaseURL == "" {
		fmt.Fprintln(os.Stderr, "DATABASE_URL is required to promote a profile")
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	repo, err := repository.New(ctx, *databaseURL, repository.Options{MaxConns: 1})
	if err != nil {
		fmt.Fprintln(os.Stderr, "connect database:", err)
		os.Exit(1)
	}
	defer repo.Close()

	profile, err := repo.GetProfileByEmail(ctx, *promoteEmail)
	if err != nil {
		fmt.Fprintln(os.Stderr, "load profile:", err)
		os.Exit(1)
	}

	if profile.Role == model.RoleAdmin {
		fmt.Fprintf(os.Stderr, "%s is already an admin\n", profile.Email)
		return
	}

	if err := repo.UpdateProfileRole(ctx, profile.ID, model.RoleAdmin); err != nil {
		fmt.Fprintln(os.Stderr, "promote profile:", err)
		os.Exit(1)
	}

	fmt.Fprintf(os.Stderr, "promoted %s to admin\n", profile.Email)
}
