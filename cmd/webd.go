/*
Copyright © 2024 NAME HERE <EMAIL ADDRESS>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"context"
	"log"
	"time"

	"github.com/rotblauer/catseg/common"
	"github.com/rotblauer/catseg/daemon/webd"
	"github.com/rotblauer/catseg/params"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var optHTTPAddr string
var optResultTTL time.Duration
var optMaxBodyBytes int64

// webdCmd represents the serve command
var webdCmd = &cobra.Command{
	Use:   "webd",
	Short: "Start the webserver",
	Long: `Serves segmentation over HTTP.

  POST /segments?name=&activity=   upload GPX, GeoJSON or JSON trackpoints
  GET  /segments/{id}              the processed track
  GET  /segments/{id}/geojson      ?variant=compressed|zipped
  GET  /summaries                  stored segment summaries, ?reguess=true
  GET  /totals                     per date and activity totals, ?reguess=true
  GET  /socket                     websocket of processed tracks

Uploads require CATSEG_TOKEN, if it is set.`,
	Run: func(cmd *cobra.Command, args []string) {
		setDefaultSlog(cmd, args)
		cfg := mustLoadConfig()

		store, err := openStore(false)
		if err != nil {
			log.Fatalln(err)
		}
		defer store.Close()

		config := params.DefaultWebDaemonConfig()
		config.DataDir = optDatadir
		config.Address = optHTTPAddr
		config.ResultTTL = optResultTTL
		config.MaxBodyBytes = optMaxBodyBytes
		server := webd.NewWebDaemon(config, newProcessor(cfg, store))

		ctx, cancel := common.InterruptedContext(context.Background())
		defer cancel()

		if influxConfig := params.DefaultInfluxConfig(); influxConfig.Enabled() {
			go server.ExportInflux(ctx, influxConfig)
		}

		if err := server.Run(ctx); err != nil {
			log.Fatalln(err)
		}
	},
}

func init() {
	rootCmd.AddCommand(webdCmd)

	defaults := params.DefaultWebDaemonConfig()
	fs := pflag.NewFlagSet("webd", pflag.ContinueOnError)
	fs.StringVar(&optHTTPAddr, "address", defaults.Address, "HTTP address to listen on")
	fs.DurationVar(&optResultTTL, "result-ttl", defaults.ResultTTL, "how long processed tracks are kept in memory")
	fs.Int64Var(&optMaxBodyBytes, "max-body", defaults.MaxBodyBytes, "largest accepted upload, in bytes")
	webdCmd.PersistentFlags().AddFlagSet(fs)
}
