// Package config provides configuration parsing for lfnd.
//
// The configuration is stored in lfnd.json. Every field is optional; a
// missing file yields the defaults.
//
// # Configuration File Structure
//
//	{
//	  "server": {
//	    "addr": ":8080",
//	    "shutdownTimeout": "5s"
//	  },
//	  "manifest": "s3://my-bucket/routes.json",
//	  "s3": {
//	    "region": "eu-west-1"
//	  },
//	  "metrics": {
//	    "enabled": true,
//	    "path": "/metrics",
//	    "namespace": "lfnd"
//	  },
//	  "tracing": {
//	    "enabled": true,
//	    "tracerName": "lfnd"
//	  },
//	  "log": {
//	    "level": "info"
//	  }
//	}
//
// # Usage
//
//	cfg, err := config.Load(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := cfg.Validate(); err != nil {
//	    log.Fatal(err)
//	}
package config
