package main

import (
	"encoding/hex"
	"fmt"
	"os"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/trendt/trendt/bencode"
	"github.com/trendt/trendt/metainfo"
	"github.com/trendt/trendt/pkg/log"
)

// defaultMaxDumpLen caps how many bytes of a byte string the dump command
// prints before truncating.
const defaultMaxDumpLen = 64

func inspectCmd(cmd *cobra.Command, args []string) error {
	torrent, err := metainfo.ParseFile(args[0])
	if err != nil {
		return errors.Wrap(err, "failed to parse torrent")
	}

	infoHash, err := torrent.Info.Hash()
	if err != nil {
		return errors.Wrap(err, "failed to hash info dictionary")
	}

	fmt.Printf("announce:     %s\n", torrent.Announce)
	for _, tier := range torrent.AnnounceList {
		fmt.Printf("tier:         %s\n", strings.Join(tier, ", "))
	}
	fmt.Printf("name:         %s\n", torrent.Info.Name)
	fmt.Printf("info hash:    %s\n", hex.EncodeToString(infoHash[:]))
	fmt.Printf("piece length: %d\n", torrent.Info.PieceLength)
	fmt.Printf("pieces:       %d\n", len(torrent.Info.Pieces)/metainfo.PieceHashLen)
	if torrent.Info.Length != nil {
		fmt.Printf("length:       %d\n", *torrent.Info.Length)
	}
	if torrent.Comment != nil {
		fmt.Printf("comment:      %s\n", *torrent.Comment)
	}
	if torrent.CreatedBy != nil {
		fmt.Printf("created by:   %s\n", *torrent.CreatedBy)
	}
	if torrent.CreationDate != nil {
		fmt.Printf("created at:   %d\n", *torrent.CreationDate)
	}
	return nil
}

func dumpCmd(maxDumpLen *int) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return errors.Wrap(err, "failed to read file")
		}

		v, n, err := bencode.Decode(data)
		if err != nil {
			return errors.Wrap(err, "failed to decode bencode")
		}

		render(v, 0, *maxDumpLen)
		if n != len(data) {
			log.Warn("trailing bytes after value", log.Fields{
				"consumed": n,
				"total":    len(data),
			})
		}
		return nil
	}
}

// render prints a decoded value tree with two-space indentation. Byte
// strings that are not printable text are shown as hex.
func render(v interface{}, indent, maxDumpLen int) {
	pad := strings.Repeat("  ", indent)
	switch val := v.(type) {
	case int64:
		fmt.Printf("%s%d\n", pad, val)
	case string:
		if len(val) > maxDumpLen {
			fmt.Printf("%s<%d bytes: %s...>\n", pad, len(val), hex.EncodeToString([]byte(val[:maxDumpLen/2])))
		} else if utf8.ValidString(val) {
			fmt.Printf("%s%q\n", pad, val)
		} else {
			fmt.Printf("%s<%d bytes: %s>\n", pad, len(val), hex.EncodeToString([]byte(val)))
		}
	case bencode.List:
		fmt.Printf("%slist (%d):\n", pad, len(val))
		for _, elem := range val {
			render(elem, indent+1, maxDumpLen)
		}
	case bencode.Dict:
		fmt.Printf("%sdict (%d):\n", pad, len(val))
		keys := make([]string, 0, len(val))
		for key := range val {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		for _, key := range keys {
			fmt.Printf("%s  %q =>\n", pad, key)
			render(val[key], indent+2, maxDumpLen)
		}
	}
}

func main() {
	var configFilePath string
	var debug bool
	maxDumpLen := defaultMaxDumpLen

	rootCmd := &cobra.Command{
		Use:   "trendt",
		Short: "BitTorrent metainfo toolkit",
		Long:  "Inspects torrent files and dumps raw bencode structures",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if configFilePath != "" {
				cfgFile, err := ParseConfigFile(configFilePath)
				if err != nil {
					return errors.Wrap(err, "failed to read config")
				}
				debug = debug || cfgFile.MainConfigBlock.Debug
				if cfgFile.MainConfigBlock.MaxDumpLen > 0 {
					maxDumpLen = cfgFile.MainConfigBlock.MaxDumpLen
				}
			}
			log.SetDebug(debug)
			return nil
		},
	}
	rootCmd.PersistentFlags().StringVar(&configFilePath, "config", "", "location of configuration file")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")

	rootCmd.AddCommand(&cobra.Command{
		Use:   "inspect <file.torrent>",
		Short: "Print the typed metainfo of a torrent file",
		Args:  cobra.ExactArgs(1),
		RunE:  inspectCmd,
	})
	rootCmd.AddCommand(&cobra.Command{
		Use:   "dump <file>",
		Short: "Print the raw bencode value tree of a file",
		Args:  cobra.ExactArgs(1),
		RunE:  dumpCmd(&maxDumpLen),
	})

	if err := rootCmd.Execute(); err != nil {
		log.Fatal("failed to run command", log.Err(err))
	}
}
