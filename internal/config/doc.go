// Package config provides the live-reload dev server configuration record.
//
// The record tells an external live-reload tool which upstream server to
// proxy, which files trigger a browser reload, and which paths the file
// watcher must ignore. It is built once at startup and never modified.
//
// # Configuration File Structure
//
// The record is stored in bs-config.json (or bs-config.yaml) at the project
// root. When no file exists the built-in default is used:
//
//	{
//	  "proxy": "127.0.0.1:8000",
//	  "files": [
//	    "./auctions/templates/auctions/*.html",
//	    "./auctions/static/auctions/*.css"
//	  ],
//	  "watchOptions": {
//	    "ignored": "node_modules/**"
//	  }
//	}
//
// # Layering
//
// Values are merged in order, later layers winning:
//
//  1. built-in defaults
//  2. the config file, when present
//  3. BSCONF_PROXY, BSCONF_FILES (comma separated) and BSCONF_WATCH_IGNORED
//
// # Usage
//
//	cfg, err := config.Load(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	fmt.Println("Proxy:", cfg.Proxy())
package config
