package mount

import (
	stderrors "errors"
	"os"
	"os/user"

	gerrors "glusterctl/pkg/errors"
)

// Account is a resolved OS user and its primary group.
type Account struct {
	Name  string
	Group string
}

// Owner is the chown argument for the account.
func (a Account) Owner() string {
	return a.Name + ":" + a.Group
}

// UserLookup resolves OS accounts.
type UserLookup interface {
	Lookup(name string) (Account, error)
	Current() (Account, error)
}

// Filesystem is the local directory handling the manager needs.
type Filesystem interface {
	MkdirAll(path string, perm os.FileMode) error
	RemoveAll(path string) error
}

type osUsers struct{}

// SystemUsers resolves accounts through the OS user database.
func SystemUsers() UserLookup { return osUsers{} }

func (osUsers) Lookup(name string) (Account, error) {
	u, err := user.Lookup(name)
	if err != nil {
		var unknown user.UnknownUserError
		if stderrors.As(err, &unknown) {
			return Account{}, gerrors.New(gerrors.KindUnknownUser, "user %q does not exist", name).
				WithDetail("user", name)
		}
		return Account{}, gerrors.Wrap(gerrors.KindExecution, err, "could not look up user %q", name)
	}
	return account(u), nil
}

func (osUsers) Current() (Account, error) {
	u, err := user.Current()
	if err != nil {
		return Account{}, gerrors.Wrap(gerrors.KindExecution, err, "could not determine the current user")
	}
	return account(u), nil
}

// account falls back to a group named after the user when the primary group
// cannot be resolved.
func account(u *user.User) Account {
	a := Account{Name: u.Username, Group: u.Username}
	if g, err := user.LookupGroupId(u.Gid); err == nil {
		a.Group = g.Name
	}
	return a
}

type osFilesystem struct{}

// SystemFilesystem is the local filesystem.
func SystemFilesystem() Filesystem { return osFilesystem{} }

func (osFilesystem) MkdirAll(path string, perm os.FileMode) error { return os.MkdirAll(path, perm) }
func (osFilesystem) RemoveAll(path string) error                  { return os.RemoveAll(path) }
