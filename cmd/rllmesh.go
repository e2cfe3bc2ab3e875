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

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/notargets/rllgrid/InputParameters"
	"github.com/notargets/rllgrid/mesh"
	"github.com/notargets/rllgrid/rll"
	"github.com/notargets/rllgrid/utils"
)

// RLLMeshCmd represents the rllmesh command
var RLLMeshCmd = &cobra.Command{
	Use:   "rllmesh",
	Short: "Generate a regular longitude-latitude mesh",
	Long: `
Generates a regular longitude-latitude mesh on the unit sphere and writes it in
Exodus format. Cell edges come either from a uniform range or from the lon and
lat coordinates of a NetCDF file. Latitude ranges reaching a pole close it with
a single pole node.

rllgrid rllmesh --lon 128 --lat 64 --file outRLLMesh.g`,
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		var (
			ip *InputParameters.RLLMeshParameters
		)
		if ip, err = rllMeshParameters(cmd); err != nil {
			return
		}
		if log.IsLevelEnabled(log.DebugLevel) {
			ip.Print()
		}
		return RunRLLMesh(ip)
	},
}

func init() {
	rootCmd.AddCommand(RLLMeshCmd)
	dp := InputParameters.NewRLLMeshParameters()
	RLLMeshCmd.Flags().Int("lon", dp.Longitudes, "number of longitudes")
	RLLMeshCmd.Flags().Int("lat", dp.Latitudes, "number of latitudes")
	RLLMeshCmd.Flags().Float64("lon_begin", dp.LonBegin, "first longitude edge in degrees")
	RLLMeshCmd.Flags().Float64("lon_end", dp.LonEnd, "last longitude edge in degrees")
	RLLMeshCmd.Flags().Float64("lat_begin", dp.LatBegin, "first latitude edge in degrees")
	RLLMeshCmd.Flags().Float64("lat_end", dp.LatEnd, "last latitude edge in degrees")
	RLLMeshCmd.Flags().Bool("flip", false, "order faces with latitude varying fastest")
	RLLMeshCmd.Flags().String("in_file", "", "NetCDF file with lon and lat cell centre coordinates")
	RLLMeshCmd.Flags().Bool("in_global", false, "treat the coordinates of --in_file as periodic in longitude")
	RLLMeshCmd.Flags().String("file", dp.OutputFile, "output mesh file")
	RLLMeshCmd.Flags().StringP("inputConditionsFile", "I", "", "YAML input deck, explicit flags take precedence")
	bindFlags(RLLMeshCmd)
}

func rllMeshParameters(cmd *cobra.Command) (ip *InputParameters.RLLMeshParameters, err error) {
	var (
		set = func(name string) bool { return true }
		key = func(name string) string { return configKey(cmd, name) }
	)
	ip = InputParameters.NewRLLMeshParameters()
	if deck := viper.GetString(key("inputConditionsFile")); deck != "" {
		if err = readDeck(deck, ip); err != nil {
			return
		}
		set = cmd.Flags().Changed
	}
	if set("lon") {
		ip.Longitudes = viper.GetInt(key("lon"))
	}
	if set("lat") {
		ip.Latitudes = viper.GetInt(key("lat"))
	}
	if set("lon_begin") {
		ip.LonBegin = viper.GetFloat64(key("lon_begin"))
	}
	if set("lon_end") {
		ip.LonEnd = viper.GetFloat64(key("lon_end"))
	}
	if set("lat_begin") {
		ip.LatBegin = viper.GetFloat64(key("lat_begin"))
	}
	if set("lat_end") {
		ip.LatEnd = viper.GetFloat64(key("lat_end"))
	}
	if set("flip") {
		ip.Flip = viper.GetBool(key("flip"))
	}
	if set("in_file") {
		ip.InputFile = viper.GetString(key("in_file"))
	}
	if set("in_global") {
		ip.ForceGlobal = viper.GetBool(key("in_global"))
	}
	if set("file") {
		ip.OutputFile = viper.GetString(key("file"))
	}
	return
}

// RunRLLMesh generates the mesh described by ip and writes it to ip.OutputFile
func RunRLLMesh(ip *InputParameters.RLLMeshParameters) (err error) {
	var (
		lonEdges, latEdges []float64
		m                  *mesh.Mesh
		meta               mesh.GridMetadata
	)
	if ip.LatBegin >= ip.LatEnd {
		return fmt.Errorf("%w: --lat_begin and --lat_end must specify a positive interval", rll.ErrInvalidInput)
	}
	if ip.LonBegin >= ip.LonEnd {
		return fmt.Errorf("%w: --lon_begin and --lon_end must specify a positive interval", rll.ErrInvalidInput)
	}
	if ip.InputFile != "" {
		var lonNodes, latNodes []float64
		log.WithField("file", ip.InputFile).Info("Generating mesh from input datafile")
		if lonNodes, latNodes, err = rll.ReadCoordinateFile(ip.InputFile); err != nil {
			return
		}
		if lonEdges, latEdges, err = rll.EdgesFromNodes(lonNodes, latNodes, ip.ForceGlobal); err != nil {
			return
		}
	} else {
		if lonEdges, err = rll.EdgesFromRange(ip.LonBegin, ip.LonEnd, ip.Longitudes); err != nil {
			return
		}
		if latEdges, err = rll.EdgesFromRange(ip.LatBegin, ip.LatEnd, ip.Latitudes); err != nil {
			return
		}
	}
	log.WithFields(log.Fields{
		"lon":       len(lonEdges) - 1,
		"lat":       len(latEdges) - 1,
		"lon_range": []float64{utils.Rad2Deg(lonEdges[0]), utils.Rad2Deg(lonEdges[len(lonEdges)-1])},
		"lat_range": []float64{utils.Rad2Deg(latEdges[0]), utils.Rad2Deg(latEdges[len(latEdges)-1])},
	}).Info("Generating mesh")
	log.WithField("edges", lonEdges).Debug("Longitudes")
	log.WithField("edges", latEdges).Debug("Latitudes")

	if m, meta, err = rll.Build(lonEdges, latEdges, rll.Options{Flip: ip.Flip}); err != nil {
		return
	}
	log.WithFields(log.Fields{
		"file": ip.OutputFile, "nodes": m.NumNodes(), "faces": m.NumFaces(),
	}).Info("Writing mesh")
	if err = mesh.WriteExodus(ip.OutputFile, m, meta); err != nil {
		return
	}
	log.Debug(utils.GetMemUsage())
	log.Info("Mesh generator exited successfully")
	return
}
