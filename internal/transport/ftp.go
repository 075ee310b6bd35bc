package transport

import (
	"context"
	"fmt"
	"net"
	"os"
	"strconv"

	"github.com/jlaffaye/ftp"

	"github.com/craftops/plugsync/internal/config"
)

// FTPUploader streams the archive as a binary STOR into the server plugin
// directory. It dials a fresh connection per upload; the connection is
// closed on every path out of Upload, including failed logins.
type FTPUploader struct {
	cfg *config.Config
}

func NewFTP(cfg *config.Config) *FTPUploader { return &FTPUploader{cfg: cfg} }

func (u *FTPUploader) Method() string { return config.MethodFTP }

func (u *FTPUploader) Upload(ctx context.Context, localPath string) error {
	addr := net.JoinHostPort(u.cfg.FTP.Host, strconv.Itoa(u.cfg.FTP.Port))

	c, err := ftp.Dial(addr, ftp.DialWithContext(ctx), ftp.DialWithTimeout(dialTimeout))
	if err != nil {
		return fmt.Errorf("failed to connect to %s: %w", addr, err)
	}
	defer c.Quit()

	if err := c.Login(u.cfg.FTP.Username, u.cfg.FTP.Password); err != nil {
		return fmt.Errorf("ftp login failed: %w", err)
	}

	if err := c.ChangeDir(u.cfg.ServerPluginDir); err != nil {
		return fmt.Errorf("failed to change to %s: %w", u.cfg.ServerPluginDir, err)
	}

	f, err := os.Open(localPath)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", localPath, err)
	}
	defer f.Close()

	if err := c.Stor(u.cfg.PluginName, f); err != nil {
		return fmt.Errorf("ftp transfer failed: %w", err)
	}
	return nil
}
