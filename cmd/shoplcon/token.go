package main

import (
	"fmt"

	"github.com/shopl/shoplcon/tokenstore"
	"github.com/tdewolff/argp"
)

type Token struct {
	File   string `short:"f" desc:"Token file, SHOPLCON_TOKEN_FILE or the user config directory when empty"`
	Action string `index:"0" desc:"get, set or delete"`
}

func (cmd *Token) Run() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	path := cmd.File
	if path == "" {
		path = cfg.TokenFile
	}
	if path == "" {
		if path, err = tokenstore.DefaultPath(); err != nil {
			return err
		}
	}
	store := tokenstore.New(path)

	switch cmd.Action {
	case "get":
		pass, err := passphrase(cfg)
		if err != nil {
			return err
		}
		token, err := store.Load(pass)
		if err != nil {
			return err
		}
		fmt.Println(token)
	case "set":
		token, err := prompt("GitHub token")
		if err != nil {
			return err
		} else if token == "" {
			return fmt.Errorf("empty token")
		}
		pass, err := passphrase(cfg)
		if err != nil {
			return err
		}
		if err := store.Save(pass, token); err != nil {
			return err
		}
		fmt.Println("token saved to", path)
	case "delete":
		if err := store.Delete(); err != nil {
			return err
		}
		fmt.Println("token deleted")
	default:
		return argp.ShowUsage
	}
	return nil
}
