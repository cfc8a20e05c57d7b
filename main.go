package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/callebjorkell/pcsc-probe/pcsc"
	"github.com/callebjorkell/pcsc-probe/store"
	log "github.com/sirupsen/logrus"
	"gopkg.in/alecthomas/kingpin.v2"
)

var (
	app     = kingpin.New("pcsc-probe", "Locates and loads the PC/SC smart card library, and reports on the readers and cards it can see.")
	library = app.Flag("library", "PC/SC library to load instead of the platform default. $LIBISA expands to lib64 or lib.").Envar(pcsc.LibraryEnv).String()
	dbPath  = app.Flag("db", "Database file that probe results and seen cards are recorded in.").Default("pcsc.db").String()
	debug   = app.Flag("debug", "Enable debug logging.").Bool()

	libraryCmd = app.Command("library", "Print the library that would be loaded, and every candidate that is tried.")

	probe = app.Command("probe", "Load the library, establish a context and list the readers. The result is recorded.")

	readers = app.Command("readers", "List the readers together with their state and the ATR of any inserted card.")

	watch         = app.Command("watch", "Print card events for a reader until interrupted.")
	watchReader   = watch.Arg("reader", "Name of the reader. Defaults to the first reader found.").String()
	watchInterval = watch.Flag("interval", "Time between polls of the reader.").Default("150ms").Duration()
	watchDebounce = watch.Flag("debounce", "Identical reads needed before a change is reported.").Default("4").Int()
	watchMock     = watch.Flag("mock", "Use a fake reader instead of PC/SC.").Bool()

	history      = app.Command("history", "Dump the recorded probe results.")
	historyCards = history.Flag("cards", "Dump the cards that have been seen instead.").Bool()
)

func main() {
	signalChan := make(chan os.Signal, 1)
	signal.Notify(signalChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-signalChan
		os.Exit(0)
	}()

	cmd := kingpin.MustParse(app.Parse(os.Args[1:]))
	if *debug {
		log.SetLevel(log.DebugLevel)
	}

	switch cmd {
	case libraryCmd.FullCommand():
		printLibrary(*library)
	case probe.FullCommand():
		runProbe()
	case readers.FullCommand():
		listReaders()
	case watch.FullCommand():
		watchReaderEvents(*watchReader)
	case history.FullCommand():
		if *historyCards {
			dumpCards()
		} else {
			dumpProbes()
		}
	default:
		kingpin.FatalUsage("Unrecognized command")
	}
}

func openDB() *store.DB {
	db, err := store.NewDB(*dbPath)
	if err != nil {
		log.Fatalf("Could not open database %v: %v", *dbPath, err)
	}
	return db
}

// establish loads the library and creates a context, exiting when either fails.
func establish() (*pcsc.Library, *pcsc.Context) {
	loader := pcsc.NewLoader(*library)
	if err := loader.Err(); err != nil {
		log.Fatal(err)
	}
	lib, _ := loader.Load()

	ctx, err := lib.EstablishContext(pcsc.ScopeSystem)
	if err != nil {
		log.Fatalf("Could not establish PC/SC context: %v", err)
	}
	return lib, ctx
}
