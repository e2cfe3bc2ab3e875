package InputParameters

import (
	"fmt"

	"github.com/ghodss/yaml"
)

// RLLMeshParameters is the YAML input deck of the rllmesh command
type RLLMeshParameters struct {
	Title       string  `yaml:"Title"`
	Longitudes  int     `yaml:"Longitudes"`
	Latitudes   int     `yaml:"Latitudes"`
	LonBegin    float64 `yaml:"LonBegin"`
	LonEnd      float64 `yaml:"LonEnd"`
	LatBegin    float64 `yaml:"LatBegin"`
	LatEnd      float64 `yaml:"LatEnd"`
	Flip        bool    `yaml:"Flip"`
	InputFile   string  `yaml:"InputFile"`
	ForceGlobal bool    `yaml:"ForceGlobal"`
	OutputFile  string  `yaml:"OutputFile"`
}

// NewRLLMeshParameters returns the defaults of the rllmesh command
func NewRLLMeshParameters() *RLLMeshParameters {
	return &RLLMeshParameters{
		Longitudes: 128,
		Latitudes:  64,
		LonBegin:   0,
		LonEnd:     360,
		LatBegin:   -90,
		LatEnd:     90,
		OutputFile: "outRLLMesh.g",
	}
}

func (ip *RLLMeshParameters) Parse(data []byte) error {
	return yaml.Unmarshal(data, ip)
}

func (ip *RLLMeshParameters) Print() {
	fmt.Printf("\"%s\"\t\t= Title\n", ip.Title)
	if ip.InputFile != "" {
		fmt.Printf("[%s]\t= Input File\n", ip.InputFile)
		fmt.Printf("[%t]\t\t\t= Force Global\n", ip.ForceGlobal)
	} else {
		fmt.Printf("[%d, %d]\t\t= Resolution [lon, lat]\n", ip.Longitudes, ip.Latitudes)
		fmt.Printf("[%g, %g]\t\t= Longitude Range\n", ip.LonBegin, ip.LonEnd)
		fmt.Printf("[%g, %g]\t\t= Latitude Range\n", ip.LatBegin, ip.LatEnd)
	}
	fmt.Printf("[%t]\t\t\t= Flip\n", ip.Flip)
	fmt.Printf("[%s]\t= Output File\n", ip.OutputFile)
}

// TestDataParameters is the YAML input deck of the testdata command
type TestDataParameters struct {
	Title           string `yaml:"Title"`
	MeshFile        string `yaml:"MeshFile"`
	TestFunction    int    `yaml:"TestFunction"`
	GLL             bool   `yaml:"GLL"`
	GLLIntegrate    bool   `yaml:"GLLIntegrate"`
	PolynomialOrder int    `yaml:"PolynomialOrder"` // GLL nodes per element edge
	HOMMEFormat     bool   `yaml:"HOMMEFormat"`
	Variable        string `yaml:"Variable"`
	OutputFile      string `yaml:"OutputFile"`
	FlipRectilinear bool   `yaml:"FlipRectilinear"`
	ConcaveFaces    bool   `yaml:"ConcaveFaces"`
	Coordinates     bool   `yaml:"Coordinates"`
	ParallelDegree  int    `yaml:"ParallelDegree"`
}

// NewTestDataParameters returns the defaults of the testdata command
func NewTestDataParameters() *TestDataParameters {
	return &TestDataParameters{
		TestFunction:    1,
		PolynomialOrder: 4,
		Variable:        "Psi",
		OutputFile:      "testdata.nc",
		ParallelDegree:  1,
	}
}

func (ip *TestDataParameters) Parse(data []byte) error {
	return yaml.Unmarshal(data, ip)
}

func (ip *TestDataParameters) Print() {
	fmt.Printf("\"%s\"\t\t= Title\n", ip.Title)
	fmt.Printf("[%s]\t= Mesh File\n", ip.MeshFile)
	fmt.Printf("[%d]\t\t\t\t= Test Function\n", ip.TestFunction)
	switch {
	case ip.GLL:
		fmt.Printf("[%d]\t\t\t\t= GLL Pointwise, Polynomial Order\n", ip.PolynomialOrder)
	case ip.GLLIntegrate:
		fmt.Printf("[%d]\t\t\t\t= GLL Integrated, Polynomial Order\n", ip.PolynomialOrder)
	default:
		fmt.Printf("[%s]\t\t= Sampling\n", "Finite Volume")
	}
	fmt.Printf("[%t]\t\t\t= HOMME Format\n", ip.HOMMEFormat)
	fmt.Printf("[%s]\t\t\t= Variable\n", ip.Variable)
	fmt.Printf("[%s]\t= Output File\n", ip.OutputFile)
}
