package transport

import (
	"context"
	"fmt"
	"io"
	"net"
	"os"
	"path"
	"strconv"

	"github.com/pkg/sftp"
	"golang.org/x/crypto/ssh"

	"github.com/craftops/plugsync/internal/config"
)

// SFTPUploader puts the archive at server_plugin_dir/plugin_name over an
// SSH connection. A configured private key file wins over password
// authentication. Host keys are not verified.
type SFTPUploader struct {
	cfg *config.Config
}

func NewSFTP(cfg *config.Config) *SFTPUploader { return &SFTPUploader{cfg: cfg} }

func (u *SFTPUploader) Method() string { return config.MethodSFTP }

func (u *SFTPUploader) Upload(ctx context.Context, localPath string) error {
	auth, err := u.authMethod()
	if err != nil {
		return err
	}

	addr := net.JoinHostPort(u.cfg.SFTP.Host, strconv.Itoa(u.cfg.SFTP.Port))
	client, err := ssh.Dial("tcp", addr, &ssh.ClientConfig{
		User:            u.cfg.SFTP.Username,
		Auth:            []ssh.AuthMethod{auth},
		HostKeyCallback: ssh.InsecureIgnoreHostKey(),
		Timeout:         dialTimeout,
	})
	if err != nil {
		return fmt.Errorf("failed to connect to %s: %w", addr, err)
	}
	defer client.Close()

	sc, err := sftp.NewClient(client)
	if err != nil {
		return fmt.Errorf("failed to open sftp session: %w", err)
	}
	defer sc.Close()

	src, err := os.Open(localPath)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", localPath, err)
	}
	defer src.Close()

	remotePath := path.Join(u.cfg.ServerPluginDir, u.cfg.PluginName)
	dst, err := sc.Create(remotePath)
	if err != nil {
		return fmt.Errorf("failed to create %s on server: %w", remotePath, err)
	}

	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		return fmt.Errorf("sftp transfer failed: %w", err)
	}
	if err := dst.Close(); err != nil {
		return fmt.Errorf("sftp transfer failed: %w", err)
	}
	return nil
}

func (u *SFTPUploader) authMethod() (ssh.AuthMethod, error) {
	if u.cfg.SFTP.PrivateKeyFile == "" {
		return ssh.Password(u.cfg.SFTP.Password), nil
	}

	keyBytes, err := os.ReadFile(u.cfg.SFTP.PrivateKeyFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read private key %s: %w", u.cfg.SFTP.PrivateKeyFile, err)
	}
	signer, err := ssh.ParsePrivateKey(keyBytes)
	if err != nil {
		return nil, fmt.Errorf("failed to parse private key %s: %w", u.cfg.SFTP.PrivateKeyFile, err)
	}
	return ssh.PublicKeys(signer), nil
}
