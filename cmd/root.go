/*
Copyright © 2020 NAME HERE <EMAIL ADDRESS>

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
	"fmt"
	"os"
	"strings"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/pkg/profile"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

var (
	cfgFile  string
	profiler interface{ Stop() }
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "rllgrid",
	Short: "Spherical mesh and test data generator",
	Long: `
Generates regular longitude-latitude meshes on the unit sphere and samples
analytic test functions onto meshes as finite volume averages or finite
element GLL nodal values, for verifying remapping schemes.

rllgrid rllmesh --lon 360 --lat 180 --file rll1deg.g
rllgrid testdata --mesh rll1deg.g --test 2 --out Y16b32.nc`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) (err error) {
		if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
			log.SetLevel(log.DebugLevel)
		}
		prof, _ := cmd.Flags().GetString("profile")
		path, _ := cmd.Flags().GetString("profile_path")
		switch prof {
		case "":
		case "cpu":
			profiler = profile.Start(profile.CPUProfile, profile.ProfilePath(path), profile.NoShutdownHook)
		case "mem":
			profiler = profile.Start(profile.MemProfile, profile.ProfilePath(path), profile.NoShutdownHook)
		default:
			err = fmt.Errorf("unknown profile type %q, expected cpu or mem", prof)
		}
		return
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	os.Exit(run(rootCmd, os.Args[1:]))
}

// run executes the command tree and maps failures onto exit codes: -1 for a
// reported error, -2 for anything that panicked. A running profile is
// stopped whatever the outcome.
func run(cmd *cobra.Command, args []string) (code int) {
	defer func() {
		if r := recover(); r != nil {
			log.WithField("panic", r).Error("unexpected failure")
			code = -2
		}
		stopProfiler()
	}()
	cmd.SetArgs(args)
	if err := cmd.Execute(); err != nil {
		log.Error(err)
		return -1
	}
	return 0
}

func stopProfiler() {
	if profiler != nil {
		profiler.Stop()
		profiler = nil
	}
}

func init() {
	cobra.OnInitialize(initConfig)
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.rllgrid.yaml)")
	rootCmd.PersistentFlags().Bool("verbose", false, "debug logging, including edge arrays and memory use")
	rootCmd.PersistentFlags().String("profile", "", "write a cpu or mem profile")
	rootCmd.PersistentFlags().String("profile_path", ".", "directory receiving the profile")
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory.
		home, err := homedir.Dir()
		if err != nil {
			log.Error(err)
			os.Exit(-1)
		}

		// Search config in home directory with name ".rllgrid" (without extension).
		viper.AddConfigPath(home)
		viper.SetConfigName(".rllgrid")
	}

	viper.SetEnvPrefix("RLLGRID")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv() // read in environment variables that match

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil {
		log.Debugf("Using config file: %s", viper.ConfigFileUsed())
	}
}

// bindFlags exposes every flag of cmd to viper under "<command>.<flag>"
func bindFlags(cmd *cobra.Command) {
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		if err := viper.BindPFlag(configKey(cmd, f.Name), f); err != nil {
			panic(err)
		}
	})
}

func configKey(cmd *cobra.Command, name string) string {
	return cmd.Name() + "." + name
}

// readDeck parses a YAML input deck into ip
func readDeck(path string, ip interface{ Parse([]byte) error }) (err error) {
	var data []byte
	if data, err = os.ReadFile(path); err != nil {
		return fmt.Errorf("unable to read input deck: %w", err)
	}
	if err = ip.Parse(data); err != nil {
		return fmt.Errorf("unable to parse input deck %q: %w", path, err)
	}
	return
}
