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
	"github.com/notargets/rllgrid/rectilinear"
	"github.com/notargets/rllgrid/sampler"
	"github.com/notargets/rllgrid/utils"
)

// TestDataCmd represents the testdata command
var TestDataCmd = &cobra.Command{
	Use:   "testdata",
	Short: "Sample a test function onto a mesh",
	Long: `
Samples an analytic test function onto an Exodus or SCRIP mesh and writes the
result as a NetCDF variable. Faces are sampled as finite volume averages by
default, --gll samples GLL nodes pointwise and --gllint projects the function
onto the GLL basis.

Test functions: 1 = Y2b2, 2 = Y16b32, 3 = Vortex, 4 = Constant

rllgrid testdata --mesh outRLLMesh.g --test 1 --out testdata.nc`,
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		var (
			ip *InputParameters.TestDataParameters
		)
		if ip, err = testDataParameters(cmd); err != nil {
			return
		}
		if log.IsLevelEnabled(log.DebugLevel) {
			ip.Print()
		}
		return RunTestData(ip)
	},
}

func init() {
	rootCmd.AddCommand(TestDataCmd)
	dp := InputParameters.NewTestDataParameters()
	TestDataCmd.Flags().String("mesh", "", "input mesh file, Exodus or SCRIP")
	TestDataCmd.Flags().Int("test", dp.TestFunction, "test function index")
	TestDataCmd.Flags().Bool("gll", false, "sample pointwise at GLL nodes")
	TestDataCmd.Flags().Bool("gllint", false, "integrate over the GLL basis")
	TestDataCmd.Flags().Int("np", dp.PolynomialOrder, "GLL nodes per element edge")
	TestDataCmd.Flags().Bool("homme", false, "add a lev dimension, and GLL node lat, lon and area")
	TestDataCmd.Flags().String("var", dp.Variable, "output variable name")
	TestDataCmd.Flags().String("out", dp.OutputFile, "output file")
	TestDataCmd.Flags().Bool("fliprectilinear", false, "transpose rectilinear output")
	TestDataCmd.Flags().Bool("concave", false, "mesh contains concave faces")
	TestDataCmd.Flags().Bool("coordinates", false, "write face centre coordinates with finite volume output")
	TestDataCmd.Flags().Int("parallel", dp.ParallelDegree, "number of goroutines sharing the face loop")
	TestDataCmd.Flags().StringP("inputConditionsFile", "I", "", "YAML input deck, explicit flags take precedence")
	bindFlags(TestDataCmd)
}

func testDataParameters(cmd *cobra.Command) (ip *InputParameters.TestDataParameters, err error) {
	var (
		set = func(name string) bool { return true }
		key = func(name string) string { return configKey(cmd, name) }
	)
	ip = InputParameters.NewTestDataParameters()
	if deck := viper.GetString(key("inputConditionsFile")); deck != "" {
		if err = readDeck(deck, ip); err != nil {
			return
		}
		set = cmd.Flags().Changed
	}
	if set("mesh") {
		ip.MeshFile = viper.GetString(key("mesh"))
	}
	if set("test") {
		ip.TestFunction = viper.GetInt(key("test"))
	}
	if set("gll") {
		ip.GLL = viper.GetBool(key("gll"))
	}
	if set("gllint") {
		ip.GLLIntegrate = viper.GetBool(key("gllint"))
	}
	if set("np") {
		ip.PolynomialOrder = viper.GetInt(key("np"))
	}
	if set("homme") {
		ip.HOMMEFormat = viper.GetBool(key("homme"))
	}
	if set("var") {
		ip.Variable = viper.GetString(key("var"))
	}
	if set("out") {
		ip.OutputFile = viper.GetString(key("out"))
	}
	if set("fliprectilinear") {
		ip.FlipRectilinear = viper.GetBool(key("fliprectilinear"))
	}
	if set("concave") {
		ip.ConcaveFaces = viper.GetBool(key("concave"))
	}
	if set("coordinates") {
		ip.Coordinates = viper.GetBool(key("coordinates"))
	}
	if set("parallel") {
		ip.ParallelDegree = viper.GetInt(key("parallel"))
	}
	return
}

// RunTestData samples the test function selected by ip onto its mesh and
// writes the field to ip.OutputFile.
func RunTestData(ip *InputParameters.TestDataParameters) (err error) {
	var (
		mode   sampler.Mode
		tf     sampler.TestFunction
		m      *mesh.Mesh
		meta   mesh.GridMetadata
		layout *rectilinear.Layout
		field  *sampler.Field
	)
	if mode, err = sampler.ModeFromFlags(ip.GLL, ip.GLLIntegrate); err != nil {
		return
	}
	if tf, err = sampler.ParseTestFunction(ip.TestFunction); err != nil {
		return
	}
	if err = sampler.CheckVariableName(ip.Variable,
		mode.IsFiniteElement() && ip.HOMMEFormat, mode == sampler.FiniteVolume && ip.Coordinates); err != nil {
		return
	}
	if ip.MeshFile == "" {
		return fmt.Errorf("%w: no mesh file given, use --mesh", rectilinear.ErrConfiguration)
	}
	log.WithFields(log.Fields{"function": tf, "mode": mode}).Info("Using test function")

	log.WithField("file", ip.MeshFile).Info("Loading mesh")
	if m, meta, err = mesh.ReadMeshFile(ip.MeshFile); err != nil {
		return
	}
	m.Concave = ip.ConcaveFaces
	opts := rectilinear.Options{Flip: ip.FlipRectilinear, Level: ip.HOMMEFormat}
	if layout, err = rectilinear.Resolve(meta, m.NumFaces(), opts); err != nil {
		return
	}
	if err = rectilinear.CheckModes(layout, ip.GLL, ip.GLLIntegrate); err != nil {
		return
	}
	if layout.IsRectilinear() {
		log.WithField("dims", layout.Sizes()).Info("Rectilinear grid detected")
	} else {
		log.WithField("dims", layout.Sizes()).Info("Non-rectilinear grid detected")
	}

	log.Info("Generating test data")
	s := sampler.NewSampler(m, layout, tf)
	s.NP = ip.PolynomialOrder
	s.ParallelDegree = ip.ParallelDegree
	s.HOMME = ip.HOMMEFormat
	s.Coordinates = ip.Coordinates
	if field, err = s.Sample(mode); err != nil {
		return
	}
	log.Debug(utils.GetMemUsage())

	log.WithFields(log.Fields{"file": ip.OutputFile, "variable": ip.Variable}).Info("Writing results")
	return field.Write(ip.OutputFile, ip.Variable)
}
