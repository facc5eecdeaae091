package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dmitrijs2005/taskflow/internal/client/models"
	"github.com/dmitrijs2005/taskflow/internal/common"
)

// getSimpleText, getPassword and getPairs are indirections used to
// facilitate testing. They point to interactive input helpers and can be
// swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword
var getPairs = GetPairs

var ErrLoginFailed = errors.New("incorrect email or password")

// Register prompts for email, full name, an optional phone and a password,
// creates the account and signs the user in.
//
// The password byte slice is wiped before returning.
func (a *App) Register(ctx context.Context) error {
	a.Navigate(pathRegister)

	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	fullName, err := getSimpleText(a.reader, "Enter full name", a.out)
	if err != nil {
		return err
	}
	phone, err := getSimpleText(a.reader, "Enter phone (optional)", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	reg := models.Registration{Email: email, Password: string(password), FullName: fullName}
	if phone != "" {
		reg.Phone = &phone
	}

	resp, err := a.auth.Register(ctx, reg)
	if err != nil {
		return err
	}

	a.println("Welcome, " + resp.User.DisplayName() + "!")
	a.Navigate(pathDashboard)
	return nil
}

// Login prompts for credentials and authenticates. On success the user is
// taken back to the screen they were on when their previous session
// expired, or to the dashboard.
//
// A rejected password is reported as ErrLoginFailed; an unreachable backend
// as common.ErrUnavailable. The password is wiped before returning.
func (a *App) Login(ctx context.Context) error {
	a.Navigate(pathLogin)

	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	resp, err := a.auth.Login(ctx, email, string(password))
	if err != nil {
		a.log.Info(ctx, "login failed", "email", email, "error", err)
		if errors.Is(err, common.ErrUnauthorized) {
			return ErrLoginFailed
		}
		return err
	}

	a.println("Logged in as " + resp.User.DisplayName())

	next := a.redirects.TakeRedirectPath(ctx)
	if next == "" {
		next = pathDashboard
	}
	a.Navigate(next)
	return nil
}

// Logout ends the session. Local credentials are cleared even when the
// backend cannot be told.
func (a *App) Logout(ctx context.Context) error {
	err := a.auth.Logout(ctx)
	a.setUserName("")
	a.Navigate(pathLogin)
	if err != nil {
		return err
	}
	a.println("Logged out")
	return nil
}

// WhoAmI fetches the profile from the backend and prints it.
func (a *App) WhoAmI(ctx context.Context) error {
	a.Navigate(pathProfile)

	u, err := a.auth.Me(ctx)
	if err != nil {
		return err
	}
	a.printUser(u)
	return nil
}

func (a *App) Verify(ctx context.Context) error {
	if a.auth.VerifySession(ctx) {
		a.println("Session is valid")
	} else {
		a.println("Session is not valid")
	}
	return nil
}

// RefreshSession forces a token refresh, joining one already in flight.
func (a *App) RefreshSession(ctx context.Context) error {
	if _, err := a.auth.RefreshNow(ctx); err != nil {
		return err
	}
	a.println("Session refreshed")
	return nil
}

// SetName changes the user's full name: name <full name>.
func (a *App) SetName(ctx context.Context, args []string) error {
	name := strings.TrimSpace(strings.Join(args, " "))
	if name == "" {
		return usage("name <full name>")
	}
	u, err := a.auth.UpdateName(ctx, name)
	if err != nil {
		return err
	}
	a.println("Name changed to " + u.FullName)
	return nil
}

// Profile reads name=value lines and applies them as one profile update.
func (a *App) Profile(ctx context.Context) error {
	a.Navigate(pathProfile)

	a.println("Fields: " + strings.Join(models.ProfileFields, ", "))
	pairs, err := getPairs(a.reader, a.out)
	if err != nil {
		return err
	}
	if len(pairs) == 0 {
		return nil
	}
	upd, err := models.ProfileUpdateFromPairs(pairs)
	if err != nil {
		return err
	}
	u, err := a.auth.UpdateProfile(ctx, upd)
	if err != nil {
		return err
	}
	a.printUser(u)
	return nil
}

// Avatar uploads an image file as the user's avatar: avatar <file>.
func (a *App) Avatar(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return usage("avatar <file>")
	}
	f, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("open avatar: %w", err)
	}
	defer f.Close()

	u, err := a.auth.UploadAvatar(ctx, filepath.Base(args[0]), f)
	if err != nil {
		return err
	}
	a.println("Avatar: " + u.AvatarURL)
	return nil
}

func (a *App) RemoveAvatar(ctx context.Context) error {
	if _, err := a.auth.DeleteAvatar(ctx); err != nil {
		return err
	}
	a.println("Avatar removed")
	return nil
}

func (a *App) printUser(u *models.User) {
	a.printf("Name:  %s\nEmail: %s\n", u.FullName, u.Email)
	if u.Phone != "" {
		a.printf("Phone: %s\n", u.Phone)
	}
	if u.AvatarURL != "" {
		a.printf("Avatar: %s\n", u.AvatarURL)
	}
}
