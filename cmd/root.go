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
	"log"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/mitchellh/go-homedir"
	"github.com/rotblauer/catseg/api"
	"github.com/rotblauer/catseg/params"
	"github.com/rotblauer/catseg/places"
	"github.com/rotblauer/catseg/state"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string
var optVerbosity int
var optDatadir string
var optPlacemarks string
var optRgeo bool
var optLogJSON bool

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "catseg",
	Short: "Split GPS tracks into activity segments",
	Long: `catseg reads GPS traces (GPX, GeoJSON or JSON trackpoints),
splits them into segments of movement separated by breaks,
classifies each segment's activity and compresses the result.

Activity profiles, overrides and tuning live in the config file,
by default $HOME/.catseg.yaml.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	pFlags := rootCmd.PersistentFlags()
	pFlags.StringVar(&cfgFile, "config", "", "config file (default is $HOME/.catseg.yaml)")
	pFlags.IntVar(&optVerbosity, "verbosity", int(slog.LevelInfo), "slog level: -4 debug, 0 info, 4 warn, 8 error")
	pFlags.BoolVar(&optLogJSON, "log-json", false, "log JSON lines to stderr")
	pFlags.StringVar(&optDatadir, "datadir", params.DatadirRoot, "directory holding the state database")
	pFlags.StringVar(&optPlacemarks, "placemarks", "", "CSV of named places (placemark,type,lat,lon,alt)")
	pFlags.BoolVar(&optRgeo, "rgeo", false, "name segment ends by reverse geocoding")

	pFlags.String("activity", "", "activity the input was recorded as, eg. walk, ski, cycle")
	_ = viper.BindPFlag("activity", pFlags.Lookup("activity"))
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := homedir.Dir()
		cobra.CheckErr(err)
		viper.AddConfigPath(home)
		viper.SetConfigType("yaml")
		viper.SetConfigName(".catseg")
	}

	viper.SetEnvPrefix("CATSEG")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		slog.Info("Using config file", "file", viper.ConfigFileUsed())
	}
}

func setDefaultSlog(cmd *cobra.Command, args []string) {
	if optLogJSON {
		slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.Level(optVerbosity),
		})))
		return
	}
	slog.SetLogLoggerLevel(slog.Level(optVerbosity))
}

func mustLoadConfig() *params.Config {
	cfg, err := params.Load(viper.GetViper())
	if err != nil {
		log.Fatalln(err)
	}
	return cfg
}

// newNamer builds the segment namer from flags, along with the placemarks it
// loaded. The namer is nil if none is configured.
func newNamer() (places.Namer, places.Placemarks, error) {
	var namers places.Namers
	var marks places.Placemarks
	if optPlacemarks != "" {
		f, err := os.Open(optPlacemarks)
		if err != nil {
			return nil, nil, err
		}
		defer f.Close()
		marks, err = places.LoadCSV(f)
		if err != nil {
			return nil, nil, err
		}
		namers = append(namers, marks)
	}
	if optRgeo {
		slog.Info("Loading reverse geocoder")
		r, err := places.NewRgeoNamer()
		if err != nil {
			return nil, nil, err
		}
		namers = append(namers, r)
	}
	if len(namers) == 0 {
		return nil, nil, nil
	}
	cached, err := places.NewCachedNamer(namers, params.CachePlacemarkN)
	if err != nil {
		return nil, nil, err
	}
	return cached, marks, nil
}

// newProcessor wires the namer and placemarks from flags into a Processor.
func newProcessor(cfg *params.Config, store *state.Store) *api.Processor {
	namer, marks, err := newNamer()
	if err != nil {
		log.Fatalln(err)
	}
	p := api.NewProcessor(cfg, namer, store)
	p.Placemarks = marks
	return p
}

func openStore(readOnly bool) (*state.Store, error) {
	if err := os.MkdirAll(optDatadir, 0770); err != nil {
		return nil, err
	}
	return state.Open(filepath.Join(optDatadir, params.StateDBName), readOnly)
}
