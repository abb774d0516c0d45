// Command wadinfo inspects a WAD: its lumps and levels, the sector under a
// point, and whether an actor fits at a position.
package main

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"strconv"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	wad "github.com/stuarthighley/wadgeom"
)

var (
	verbose bool
	radius  float64
	player  bool
	outFile string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "wadinfo",
		Short: "Inspect DOOM WAD archives and their levels",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if verbose {
				l, err := zap.NewDevelopment()
				if err == nil {
					wad.SetLogger(l)
				}
			}
		},
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log decoding steps")

	checkCmd.Flags().Float64Var(&radius, "radius", 16, "actor radius in map units")
	checkCmd.Flags().BoolVar(&player, "player", true, "check as the player rather than a monster")
	pictureCmd.Flags().StringVarP(&outFile, "out", "o", "", "output PNG file (default <name>.png)")

	rootCmd.AddCommand(lumpsCmd, levelsCmd, sectorCmd, checkCmd, treeCmd, pictureCmd)
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var lumpsCmd = &cobra.Command{
	Use:   "lumps <wad>",
	Short: "List the lump directory",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		w, err := wad.NewWAD(args[0])
		if err != nil {
			return err
		}
		fmt.Printf("%s, %d lumps\n", w.Header.Type, w.Header.NumLumps)
		for i, l := range w.Lumps {
			fmt.Printf("%6d %-8s %8d\n", i, l.Name, len(l.Data))
		}
		return nil
	},
}

var levelsCmd = &cobra.Command{
	Use:   "levels <wad>",
	Short: "List the levels",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		w, err := wad.NewWAD(args[0])
		if err != nil {
			return err
		}
		for _, name := range w.LevelNames() {
			l, err := w.ReadLevel(name)
			if err != nil {
				return err
			}
			bm := &l.BlockMap
			fmt.Printf("%-6s %5d things %5d lines %5d sectors %5d nodes, blockmap %dx%d units\n",
				name, len(l.Things), len(l.Lines), len(l.Sectors), len(l.Nodes),
				bm.NumColumns*wad.MapBlockUnits, bm.NumRows*wad.MapBlockUnits)
		}
		return nil
	},
}

var sectorCmd = &cobra.Command{
	Use:   "sector <wad> <level> <x> <y>",
	Short: "Print the sector containing a point",
	Args:  cobra.ExactArgs(4),
	RunE: func(cmd *cobra.Command, args []string) error {
		l, x, y, err := loadPoint(args)
		if err != nil {
			return err
		}
		s, err := l.SectorAt(x, y)
		if err != nil {
			return err
		}
		fmt.Printf("sector %d: floor %v %s, ceiling %v %s, light %d, type %d, tag %d\n",
			s.Index, s.FloorHeight.Float(), s.FloorTextureName, s.CeilingHeight.Float(), s.CeilingTextureName,
			s.LightLevel, s.Type, s.TagNum)
		for _, li := range s.Lines {
			if li.Type != wad.LineTypeNone {
				fmt.Printf("  line %d: %v, tag %d\n", li.Index, li.Type, li.SectorTagNum)
			}
		}
		return nil
	},
}

var checkCmd = &cobra.Command{
	Use:   "check <wad> <level> <x> <y>",
	Short: "Check whether an actor may stand at a point",
	Args:  cobra.ExactArgs(4),
	RunE: func(cmd *cobra.Command, args []string) error {
		l, x, y, err := loadPoint(args)
		if err != nil {
			return err
		}
		a := &wad.Actor{
			X:      wad.FloatToFixed(x),
			Y:      wad.FloatToFixed(y),
			Radius: wad.FloatToFixed(radius),
			Height: wad.IntToFixed(56),
			Flags:  wad.FlagSolid | wad.FlagShootable,
			Player: player,
		}
		pos, err := l.CheckPosition(a, a.X, a.Y, nil)
		if err != nil {
			return err
		}
		if !pos.Admissible {
			fmt.Printf("rejected: %v", pos.Reason)
			if pos.BlockingLine != nil {
				fmt.Printf(" (line %d)", pos.BlockingLine.Index)
			}
			fmt.Println()
			return nil
		}
		fmt.Printf("admissible in sector %d: floor %v, ceiling %v, dropoff %v\n",
			pos.Sector.Index, pos.FloorZ.Float(), pos.CeilingZ.Float(), pos.DropoffZ.Float())
		return nil
	},
}

var treeCmd = &cobra.Command{
	Use:   "tree <wad> <level>",
	Short: "Print a level's BSP tree",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		w, err := wad.NewWAD(args[0])
		if err != nil {
			return err
		}
		l, err := w.ReadLevel(args[1])
		if err != nil {
			return err
		}
		l.PrintTree(os.Stdout)
		return nil
	},
}

var pictureCmd = &cobra.Command{
	Use:   "picture <wad> <name>",
	Short: "Export a picture lump as PNG",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		w, err := wad.NewWAD(args[0])
		if err != nil {
			return err
		}
		pic, err := w.GetPicture(args[1])
		if err != nil {
			return err
		}
		palettes, err := w.Palettes()
		if err != nil {
			return err
		}
		if len(palettes) == 0 {
			return fmt.Errorf("PLAYPAL is empty")
		}
		name := outFile
		if name == "" {
			name = pic.Name + ".png"
		}
		return createPNGPic(name, pic, &palettes[0])
	},
}

func loadPoint(args []string) (*wad.Level, float64, float64, error) {
	x, err := strconv.ParseFloat(args[2], 64)
	if err != nil {
		return nil, 0, 0, err
	}
	y, err := strconv.ParseFloat(args[3], 64)
	if err != nil {
		return nil, 0, 0, err
	}
	w, err := wad.NewWAD(args[0])
	if err != nil {
		return nil, 0, 0, err
	}
	l, err := w.ReadLevel(args[1])
	if err != nil {
		return nil, 0, 0, err
	}
	return l, x, y, nil
}

func createPNGPic(filename string, p *wad.Picture, palette *wad.Palette) error {
	upLeft := image.Point{0, 0}
	lowRight := image.Point{p.Width, p.Height}
	img := image.NewRGBA(image.Rectangle{upLeft, lowRight})

	// Set color for each pixel.
	for x := range p.Columns {
		for y, b := range p.Columns[x] {
			if b != wad.TransparentIndex {
				c := palette[b]
				img.SetRGBA(x, y, color.RGBA{c.Red, c.Green, c.Blue, 0xff})
			}
		}
	}

	// Encode as PNG.
	f, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer f.Close()
	return png.Encode(f, img)
}
